package ports

import (
	"context"

	"github.com/qrvault/qrvault/internal/core/domain"
)

// QRCodeRepository owns the qrs collection. It performs no role checks:
// ownership and capability gating belong to the callers, which keeps the
// store testable in isolation.
type QRCodeRepository interface {
	// Create inserts a record and fills in its assigned ID. Duplicate text
	// for the same owner is allowed.
	Create(ctx context.Context, code *domain.QRCode) error

	// ListByOwner returns the owner's records, newest first. An empty slice
	// is a valid, non-error result.
	ListByOwner(ctx context.Context, userID string) ([]domain.QRCode, error)

	// ListAllWithOwner returns every record with the owner's username
	// resolved, newest first.
	ListAllWithOwner(ctx context.Context) ([]domain.QRCodeWithOwner, error)

	// DeleteByID removes one record by primary key. Returns
	// domain.ErrQRCodeNotFound when no record matched.
	DeleteByID(ctx context.Context, id string) error
}
