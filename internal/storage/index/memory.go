package index

import (
	"context"
	"sort"
	"sync"

	"album/internal/asset"
)

// Memory implements asset.Index with an in-process map. It mirrors the
// Postgres ordering semantics and serves development runs without a
// database as well as tests.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	assets map[int64]asset.Asset
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{nextID: 1, assets: make(map[int64]asset.Asset)}
}

func (m *Memory) Insert(ctx context.Context, a *asset.Asset) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	stored := *a
	stored.ID = id
	m.assets[id] = stored
	return id, nil
}

func (m *Memory) FindByID(ctx context.Context, id int64) (*asset.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok || a.Deleted {
		return nil, nil
	}
	found := a
	return &found, nil
}

func (m *Memory) SoftDelete(ctx context.Context, id int64) (bool, error) {
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

func (m *Memory) Page(ctx context.Context, offset, limit int) ([]asset.Asset, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	live := make([]asset.Asset, 0, len(m.assets))
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
	page := make([]asset.Asset, end-offset)
	copy(page, live[offset:end])
	return page, total, nil
}
