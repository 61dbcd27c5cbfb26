package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"album/internal/storage/blobstore"
)

type memoryBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	puts      int
	deletes   int
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{objects: make(map[string][]byte)}
}

func (s *memoryBlobStore) Put(ctx context.Context, key string, body io.Reader, opts blobstore.PutOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

type memoryIndex struct {
	mu      sync.Mutex
	nextID  int64
	assets  map[int64]Asset
	inserts int
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{nextID: 1, assets: make(map[int64]Asset)}
}

func (m *memoryIndex) Insert(ctx context.Context, a *Asset) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	id := m.nextID
	m.nextID++
	stored := *a
	stored.ID = id
	m.assets[id] = stored
	return id, nil
}

func (m *memoryIndex) FindByID(ctx context.Context, id int64) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok || a.Deleted {
		return nil, nil
	}
	found := a
	return &found, nil
}

func (m *memoryIndex) SoftDelete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok || a.Deleted {
		return false, nil
	}
	a.Deleted = true
	m.assets[id] = a
	return true, nil
}

func (m *memoryIndex) Page(ctx context.Context, offset, limit int) ([]Asset, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var live []Asset
	for _, a := range m.assets {
		if !a.Deleted {
			live = append(live, a)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].SortOrder != live[j].SortOrder {
			return live[i].SortOrder > live[j].SortOrder
		}
		return live[i].UploadedAt.After(live[j].UploadedAt)
	})
	total := int64(len(live))
	if offset >= len(live) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(live) {
		end = len(live)
	}
	return live[offset:end], total, nil
}

func newTestManager(store *memoryBlobStore, idx *memoryIndex, now time.Time) *Manager {
	return NewManager(store, idx,
		WithFolder("album"),
		WithURLPrefix("https://cdn.example.com/"),
		WithClock(func() time.Time { return now }),
	)
}

func TestUploadSuccess(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	now := time.Date(2026, 8, 31, 12, 30, 45, 0, time.UTC)
	manager := newTestManager(store, idx, now)

	payload := strings.Repeat("x", 2048)
	view, err := manager.Upload(context.Background(), Upload{
		Filename:    "photo.JPG",
		MediaType:   "image/jpeg",
		SizeBytes:   2048,
		Description: "holiday",
	}, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if view.ID != 1 {
		t.Fatalf("expected id 1, got %d", view.ID)
	}
	if view.MediaType != "image/jpeg" {
		t.Fatalf("expected declared media type preserved, got %q", view.MediaType)
	}
	if view.SizeBytes != 2048 {
		t.Fatalf("expected size 2048, got %d", view.SizeBytes)
	}
	if view.Description != "holiday" {
		t.Fatalf("expected description preserved, got %q", view.Description)
	}
	if view.UploadedAt != "2026-08-31 12:30:45" {
		t.Fatalf("unexpected upload timestamp rendering: %q", view.UploadedAt)
	}
	// Stored names are a 32-char hex token plus the lower-cased extension.
	if !strings.HasSuffix(view.StoredName, ".jpg") {
		t.Fatalf("expected lower-cased .jpg extension, got %q", view.StoredName)
	}
	if len(view.StoredName) != 32+len(".jpg") {
		t.Fatalf("unexpected stored name length: %q", view.StoredName)
	}

	key := "album/" + view.StoredName
	if view.URL != "https://cdn.example.com/"+key {
		t.Fatalf("unexpected url: %q", view.URL)
	}
	if data, ok := store.objects[key]; !ok {
		t.Fatalf("expected blob stored under %q", key)
	} else if string(data) != payload {
		t.Fatalf("stored blob does not match payload")
	}

	record, err := idx.FindByID(context.Background(), view.ID)
	if err != nil || record == nil {
		t.Fatalf("expected index row for id %d", view.ID)
	}
	if record.OriginalName != "photo.JPG" {
		t.Fatalf("expected original name preserved verbatim, got %q", record.OriginalName)
	}
	if record.Deleted || record.SortOrder != 0 {
		t.Fatalf("unexpected row defaults: deleted=%v sortOrder=%d", record.Deleted, record.SortOrder)
	}
}

func TestUploadRejectionHasNoSideEffects(t *testing.T) {
	cases := []struct {
		name   string
		upload Upload
		want   error
	}{
		{"empty", Upload{Filename: "photo.jpg", MediaType: "image/jpeg", SizeBytes: 0}, ErrEmptyFile},
		{"too large", Upload{Filename: "photo.jpg", MediaType: "image/jpeg", SizeBytes: MaxUploadBytes + 1}, ErrTooLarge},
		{"bad type", Upload{Filename: "photo.jpg", MediaType: "text/plain", SizeBytes: 10}, ErrUnsupportedType},
		{"bad name", Upload{Filename: "photo", MediaType: "image/jpeg", SizeBytes: 10}, ErrInvalidFilename},
		{"bad extension", Upload{Filename: "photo.bmp", MediaType: "image/jpeg", SizeBytes: 10}, ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemoryBlobStore()
			idx := newMemoryIndex()
			manager := newTestManager(store, idx, time.Now())

			_, err := manager.Upload(context.Background(), tc.upload, strings.NewReader("data"))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Upload returned %v, want %v", err, tc.want)
			}
			if store.puts != 0 {
				t.Fatalf("expected no store writes, got %d", store.puts)
			}
			if idx.inserts != 0 {
				t.Fatalf("expected no index inserts, got %d", idx.inserts)
			}
		})
	}
}

func TestUploadStorageFailureLeavesNoIndexRow(t *testing.T) {
	store := newMemoryBlobStore()
	store.putErr = fmt.Errorf("bucket unreachable")
	idx := newMemoryIndex()
	manager := newTestManager(store, idx, time.Now())

	_, err := manager.Upload(context.Background(), Upload{
		Filename:  "photo.jpg",
		MediaType: "image/jpeg",
		SizeBytes: 10,
	}, strings.NewReader("0123456789"))
	if !errors.Is(err, ErrStorageWrite) {
		t.Fatalf("Upload returned %v, want %v", err, ErrStorageWrite)
	}
	if idx.inserts != 0 {
		t.Fatalf("expected no index row after storage failure, got %d inserts", idx.inserts)
	}
}

func TestUploadGeneratesUniqueStoredNames(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	manager := newTestManager(store, idx, time.Now())

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		view, err := manager.Upload(context.Background(), Upload{
			Filename:  "same-name.png",
			MediaType: "image/png",
			SizeBytes: 4,
		}, strings.NewReader("data"))
		if err != nil {
			t.Fatalf("Upload %d returned error: %v", i, err)
		}
		if _, dup := seen[view.StoredName]; dup {
			t.Fatalf("stored name %q repeated", view.StoredName)
		}
		seen[view.StoredName] = struct{}{}
	}
}

func uploadN(t *testing.T, manager *Manager, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		view, err := manager.Upload(context.Background(), Upload{
			Filename:  fmt.Sprintf("img-%d.png", i),
			MediaType: "image/png",
			SizeBytes: 4,
		}, strings.NewReader("data"))
		if err != nil {
			t.Fatalf("Upload %d returned error: %v", i, err)
		}
		ids = append(ids, view.ID)
	}
	return ids
}

func TestListNormalizesPageAndSize(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	manager := NewManager(store, idx,
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
	)
	uploadN(t, manager, 25)

	page, err := manager.List(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Page != 1 || page.Size != 20 {
		t.Fatalf("expected normalization to page=1 size=20, got page=%d size=%d", page.Page, page.Size)
	}
	if page.Total != 25 {
		t.Fatalf("expected total 25, got %d", page.Total)
	}
	if len(page.Items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(page.Items))
	}
	// Newest upload first.
	if page.Items[0].ID != 25 {
		t.Fatalf("expected newest asset first, got id %d", page.Items[0].ID)
	}
}

func TestListPaginationWindows(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	manager := NewManager(store, idx,
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
	)
	uploadN(t, manager, 5)

	last, err := manager.List(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(last.Items) != 1 || last.Total != 5 {
		t.Fatalf("expected final page with 1 item and total 5, got %d items total %d", len(last.Items), last.Total)
	}

	beyond, err := manager.List(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(beyond.Items) != 0 {
		t.Fatalf("expected empty page beyond range, got %d items", len(beyond.Items))
	}
	if beyond.Total != 5 {
		t.Fatalf("expected total 5 on beyond-range page, got %d", beyond.Total)
	}
}

func TestListOrdersBySortOrderThenUploadTime(t *testing.T) {
	idx := newMemoryIndex()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := []Asset{
		{StoredName: "old-pinned", SortOrder: 5, UploadedAt: base},
		{StoredName: "newest", SortOrder: 0, UploadedAt: base.Add(3 * time.Hour)},
		{StoredName: "older", SortOrder: 0, UploadedAt: base.Add(1 * time.Hour)},
		{StoredName: "new-pinned", SortOrder: 5, UploadedAt: base.Add(2 * time.Hour)},
	}
	for i := range rows {
		if _, err := idx.Insert(context.Background(), &rows[i]); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}

	manager := NewManager(newMemoryBlobStore(), idx)
	page, err := manager.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	var got []string
	for _, item := range page.Items {
		got = append(got, item.StoredName)
	}
	want := []string{"new-pinned", "old-pinned", "newest", "older"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}
}

func TestListIsStableAcrossRepeatedCalls(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	manager := NewManager(store, idx,
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
	)
	uploadN(t, manager, 3)

	first, err := manager.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	second, err := manager.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("repeated listings differ in length: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("repeated listings differ at %d: %d vs %d", i, first.Items[i].ID, second.Items[i].ID)
		}
	}
}

func TestDeleteHidesAssetAndRemovesBlob(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	manager := newTestManager(store, idx, time.Now())
	ids := uploadN(t, manager, 1)

	if err := manager.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected blob removed, %d objects remain", len(store.objects))
	}

	page, err := manager.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("expected deleted asset hidden, total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestDeleteUnknownIDReturnsNotFound(t *testing.T) {
	manager := newTestManager(newMemoryBlobStore(), newMemoryIndex(), time.Now())
	if err := manager.Delete(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete returned %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteTwiceReturnsNotFound(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	manager := newTestManager(store, idx, time.Now())
	ids := uploadN(t, manager, 1)

	if err := manager.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("first Delete returned error: %v", err)
	}
	if err := manager.Delete(context.Background(), ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete returned %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteStorageFailureStillHidesAsset(t *testing.T) {
	store := newMemoryBlobStore()
	idx := newMemoryIndex()
	manager := newTestManager(store, idx, time.Now())
	ids := uploadN(t, manager, 1)

	store.deleteErr = fmt.Errorf("bucket unreachable")
	err := manager.Delete(context.Background(), ids[0])
	if !errors.Is(err, ErrStorageDelete) {
		t.Fatalf("Delete returned %v, want %v", err, ErrStorageDelete)
	}

	// Mark-then-delete: the row is hidden even though cleanup failed and
	// the blob is orphaned.
	record, err := idx.FindByID(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected asset hidden after failed blob delete")
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected orphaned blob to remain, %d objects", len(store.objects))
	}
}
