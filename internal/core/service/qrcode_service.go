package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qrvault/qrvault/internal/api/metrics"
	"github.com/qrvault/qrvault/internal/core/domain"
	"github.com/qrvault/qrvault/internal/core/ports"
)

// QREncoder turns text into a scannable PNG of size x size pixels.
type QREncoder interface {
	EncodePNG(text string, size int) ([]byte, error)
}

// ImageCache abstracts the encoded-image cache (Redis).
type ImageCache interface {
	Fetch(ctx context.Context, text string, size int) ([]byte, bool, error)
	Store(ctx context.Context, text string, size int, png []byte) error
}

type qrCodeService struct {
	repo    ports.QRCodeRepository
	encoder QREncoder
	cache   ImageCache
	size    int
	log     zerolog.Logger
	now     func() time.Time
}

// NewQRCodeService returns a QRCodeService implementation. size is the edge
// length in pixels of generated images.
func NewQRCodeService(repo ports.QRCodeRepository, encoder QREncoder, cache ImageCache, size int, log zerolog.Logger) ports.QRCodeService {
	return &qrCodeService{
		repo:    repo,
		encoder: encoder,
		cache:   cache,
		size:    size,
		log:     log,
		now:     time.Now,
	}
}

// Generate encodes input.Text and, when input.Save is set, persists a history
// record for the owner. The text is persisted as submitted; only the
// trimmed-empty case is rejected, before any side effect.
func (s *qrCodeService) Generate(ctx context.Context, input ports.GenerateQRCodeInput) (*ports.GenerateQRCodeResult, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyText
	}

	png, err := s.encodedImage(ctx, input.Text)
	if err != nil {
		return nil, err
	}

	result := &ports.GenerateQRCodeResult{PNG: png}

	if input.Save {
		record := &domain.QRCode{
			UserID:    input.UserID,
			Text:      input.Text,
			CreatedAt: s.now().UTC(),
		}
		if err := s.repo.Create(ctx, record); err != nil {
			s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to save qr code")
			return nil, err
		}
		metrics.QRCodesSavedTotal.Inc()
		s.log.Info().Str("user_id", input.UserID).Str("qr_id", record.ID).Msg("qr code saved")
		result.Record = record
	}

	return result, nil
}

// encodedImage serves the PNG from cache when possible. Cache faults are
// logged and the image is re-encoded; the cache is an optimization, never a
// dependency of correctness.
func (s *qrCodeService) encodedImage(ctx context.Context, text string) ([]byte, error) {
	png, hit, err := s.cache.Fetch(ctx, text, s.size)
	if err != nil {
		s.log.Warn().Err(err).Msg("image cache fetch failed")
	}
	if hit {
		metrics.QRCodesGeneratedTotal.WithLabelValues("hit").Inc()
		return png, nil
	}

	png, err = s.encoder.EncodePNG(text, s.size)
	if err != nil {
		return nil, err
	}
	metrics.QRCodesGeneratedTotal.WithLabelValues("miss").Inc()

	if err := s.cache.Store(ctx, text, s.size, png); err != nil {
		s.log.Warn().Err(err).Msg("image cache store failed")
	}
	return png, nil
}

func (s *qrCodeService) ListByOwner(ctx context.Context, userID string) ([]domain.QRCode, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *qrCodeService) ListAllWithOwner(ctx context.Context) ([]domain.QRCodeWithOwner, error) {
	return s.repo.ListAllWithOwner(ctx)
}

func (s *qrCodeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	metrics.QRCodesDeletedTotal.Inc()
	s.log.Info().Str("qr_id", id).Msg("qr code deleted")
	return nil
}
