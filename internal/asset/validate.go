package asset

import (
	"strings"
)

// MaxUploadBytes is the upload size ceiling.
const MaxUploadBytes = 10 * 1024 * 1024

var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Validate inspects an upload's declared metadata and rejects it before any
// I/O occurs. Checks short-circuit on the first failure. Trust is placed
// entirely in the client-declared size and content type; the payload bytes
// are never sniffed.
func Validate(u Upload) error {
	if u.SizeBytes <= 0 {
		return ErrEmptyFile
	}
	if u.SizeBytes > MaxUploadBytes {
		return ErrTooLarge
	}
	if _, ok := allowedMediaTypes[strings.ToLower(u.MediaType)]; !ok {
		return ErrUnsupportedType
	}
	if !strings.Contains(u.Filename, ".") {
		return ErrInvalidFilename
	}
	if _, ok := allowedExtensions[extension(u.Filename)]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// extension returns the lower-cased substring after the last dot, including
// the dot itself. Callers must ensure the filename contains a dot.
func extension(filename string) string {
	return strings.ToLower(filename[strings.LastIndex(filename, "."):])
}
