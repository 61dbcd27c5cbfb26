package asset

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"album/internal/logging"
	"album/internal/storage/blobstore"
)

const (
	defaultPage = 1
	defaultSize = 20
)

// Manager orchestrates the asset lifecycle across the object store and the
// metadata index. It holds no mutable state of its own, so a single instance
// serves concurrent requests without locking.
type Manager struct {
	store     blobstore.BlobStore
	index     Index
	folder    string
	urlPrefix string
	logger    logging.Logger
	now       func() time.Time
}

// ManagerOption customises manager behaviour.
type ManagerOption func(*Manager)

// WithFolder sets the object-store key prefix for uploaded blobs.
func WithFolder(folder string) ManagerOption {
	return func(m *Manager) {
		m.folder = normalizeFolder(folder)
	}
}

// WithURLPrefix sets the base under which stored objects are publicly reachable.
func WithURLPrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		m.urlPrefix = prefix
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger logging.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logging.OrNop(logger)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a Manager with explicitly-owned collaborators.
func NewManager(store blobstore.BlobStore, index Index, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		index:  index,
		logger: logging.NewComponentLogger("AssetManager"),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Upload validates the incoming file, writes its bytes to the object store
// and then records the metadata row. The blob write always happens before
// the index insert so every visible row points at a present object; a failed
// insert can leave an orphaned blob, which is logged and tolerated.
func (m *Manager) Upload(ctx context.Context, u Upload, body io.Reader) (*View, error) {
	if err := Validate(u); err != nil {
		return nil, err
	}

	// Stored names are never derived from the client filename; only the
	// extension survives, lower-cased.
	ext := extension(u.Filename)
	storedName := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	key := m.folder + storedName

	err := m.store.Put(ctx, key, body, blobstore.PutOptions{
		ContentType:   u.MediaType,
		ContentLength: u.SizeBytes,
	})
	if err != nil {
		m.logger.Error("Blob write failed for %s: %v", key, err)
		return nil, storageWriteError(err)
	}

	now := m.now()
	record := &Asset{
		StoredName:   storedName,
		OriginalName: u.Filename,
		URL:          m.urlPrefix + key,
		SizeBytes:    u.SizeBytes,
		MediaType:    u.MediaType,
		Description:  u.Description,
		UploadedAt:   now,
		UpdatedAt:    now,
	}

	id, err := m.index.Insert(ctx, record)
	if err != nil {
		// The blob is already durable; the row never became visible, so
		// readers stay consistent and the upload is safe to retry.
		m.logger.Error("Index insert failed, blob %s is orphaned: %v", key, err)
		return nil, fmt.Errorf("index asset %s: %w", storedName, err)
	}
	record.ID = id

	m.logger.Info("Image uploaded: %s (%d bytes)", storedName, u.SizeBytes)
	view := record.view()
	return &view, nil
}

// List returns one page of non-deleted assets ordered by sort order then
// upload time, newest first. Out-of-range pages yield an empty list with the
// correct total.
func (m *Manager) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultSize
	}

	items, total, err := m.index.Page(ctx, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}

	views := make([]View, 0, len(items))
	for i := range items {
		views = append(views, items[i].view())
	}
	return &Page{Total: total, Page: page, Size: size, Items: views}, nil
}

// Delete hides the asset from listings and then removes its blob.
//
// The index row is marked deleted before the object-store call so a listing
// never shows an asset whose cleanup failed; the price is a possible
// orphaned blob when the store delete errors, which is logged and reported
// to the caller as ErrStorageDelete.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	record, err := m.index.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find asset %d: %w", id, err)
	}
	if record == nil {
		return ErrNotFound
	}

	ok, err := m.index.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("soft delete asset %d: %w", id, err)
	}
	if !ok {
		// A concurrent delete won the race.
		return ErrNotFound
	}

	key := m.folder + record.StoredName
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Error("Blob delete failed, %s is orphaned: %v", key, err)
		return storageDeleteError(err)
	}

	m.logger.Info("Image deleted: %s", record.StoredName)
	return nil
}

func normalizeFolder(folder string) string {
	trimmed := strings.TrimSpace(folder)
	if trimmed == "" {
		return ""
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}
