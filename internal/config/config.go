// Package config loads layered service configuration: optional
// album-config.yaml plus ALBUM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Object-store provider identifiers.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Debug          bool     `mapstructure:"debug"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects the metadata index. An empty URL falls back to the
// in-memory index, which is only suitable for development.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// StorageConfig selects and parameterises the object store.
type StorageConfig struct {
	Provider        string `mapstructure:"provider"`
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	Folder          string `mapstructure:"folder"`
	URLPrefix       string `mapstructure:"url_prefix"`
}

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// Load reads album-config.yaml from $HOME or the working directory when
// present and applies ALBUM_* environment overrides
// (e.g. ALBUM_STORAGE_BUCKET, ALBUM_SERVER_PORT).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("album-config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.url", "")
	v.SetDefault("storage.provider", ProviderLocal)
	v.SetDefault("storage.dir", "data/blobs")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.folder", "album/")
	v.SetDefault("storage.url_prefix", "")

	v.SetEnvPrefix("ALBUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(&cfg)
	return &cfg, nil
}

func normalize(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	cfg.Storage.Provider = strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = ProviderLocal
	}
	if strings.TrimSpace(cfg.Storage.Dir) == "" {
		cfg.Storage.Dir = "data/blobs"
	}
	folder := strings.TrimSpace(cfg.Storage.Folder)
	if folder != "" && !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	cfg.Storage.Folder = folder
}

// Validate reports configuration that cannot produce a working service.
func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case ProviderLocal:
		return nil
	case ProviderS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 provider")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage provider %q", c.Storage.Provider)
	}
}
