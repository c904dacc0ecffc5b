package ports

import (
	"context"

	"github.com/qrvault/qrvault/internal/core/domain"
)

// GenerateQRCodeInput carries all data for a generation request.
type GenerateQRCodeInput struct {
	UserID string
	Text   string
	// Save persists the generated code to the user's history.
	Save bool
}

// GenerateQRCodeResult is returned after encoding.
type GenerateQRCodeResult struct {
	// PNG is the encoded image payload.
	PNG []byte
	// Record is the saved history entry, nil when Save was false.
	Record *domain.QRCode
}

// QRCodeService defines use-case operations for QR codes.
type QRCodeService interface {
	Generate(ctx context.Context, input GenerateQRCodeInput) (*GenerateQRCodeResult, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.QRCode, error)
	ListAllWithOwner(ctx context.Context) ([]domain.QRCodeWithOwner, error)
	Delete(ctx context.Context, id string) error
}
