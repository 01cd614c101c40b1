package store

import (
	"context"

	"rankgate/internal/promotion/models"
)

// Store is the keyed holder of promotion requests. Records are never
// deleted; they are the audit trail for the lifetime of the process.
type Store interface {
	// Put inserts a new request. Returns sentinel.ErrConflict if the id is
	// already present; an existing record is never overwritten.
	Put(ctx context.Context, req *models.PromotionRequest) error

	// Get returns a copy of the record, or sentinel.ErrNotFound.
	Get(ctx context.Context, id string) (*models.PromotionRequest, error)

	// ListByStatus returns copies of all records with the given status, in
	// insertion order.
	ListByStatus(ctx context.Context, status models.Status) ([]*models.PromotionRequest, error)

	// Execute runs fn against a copy of the record under a per-id lock and
	// persists the copy only when fn returns nil. Concurrent Execute calls
	// for the same id are serialized, so fn observes the latest committed
	// state; calls for distinct ids do not block each other. fn may block on
	// I/O. Returns sentinel.ErrNotFound if the id is absent.
	Execute(ctx context.Context, id string, fn func(*models.PromotionRequest) error) (*models.PromotionRequest, error)
}
