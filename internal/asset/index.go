package asset

import "context"

// Index is the metadata index capability consumed by the Manager. All
// durable asset state lives behind this interface; implementations are
// expected to be safe for concurrent use.
type Index interface {
	// Insert persists a new asset row and returns its assigned id.
	Insert(ctx context.Context, a *Asset) (int64, error)

	// FindByID returns the asset with the given id, or nil when it does
	// not exist or has been soft-deleted.
	FindByID(ctx context.Context, id int64) (*Asset, error)

	// SoftDelete marks the row deleted and reports whether a live row was
	// affected. Already-deleted and unknown ids report false.
	SoftDelete(ctx context.Context, id int64) (bool, error)

	// Page returns non-deleted assets ordered by sort_order descending then
	// uploaded_at descending, windowed by offset/limit, plus the total
	// count of non-deleted rows.
	Page(ctx context.Context, offset, limit int) ([]Asset, int64, error)
}
