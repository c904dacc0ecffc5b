package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/qrvault/qrvault/internal/core/domain"
	"github.com/qrvault/qrvault/internal/core/ports"
)

type stubQRCodeRepo struct {
	records []domain.QRCode
	owners  map[string]string
	nextID  int
}

func newStubQRCodeRepo() *stubQRCodeRepo {
	return &stubQRCodeRepo{owners: map[string]string{}}
}

func (r *stubQRCodeRepo) Create(_ context.Context, record *domain.QRCode) error {
	r.nextID++
	record.ID = fmt.Sprintf("qr-%d", r.nextID)
	r.records = append(r.records, *record)
	return nil
}

func (r *stubQRCodeRepo) ListByOwner(_ context.Context, userID string) ([]domain.QRCode, error) {
	out := []domain.QRCode{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubQRCodeRepo) ListAllWithOwner(_ context.Context) ([]domain.QRCodeWithOwner, error) {
	out := []domain.QRCodeWithOwner{}
	for _, rec := range r.records {
		out = append(out, domain.QRCodeWithOwner{
			ID:            rec.ID,
			OwnerUsername: r.owners[rec.UserID],
			Text:          rec.Text,
			CreatedAt:     rec.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubQRCodeRepo) DeleteByID(_ context.Context, id string) error {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrQRCodeNotFound
}

type stubEncoder struct {
	calls int
	err   error
}

func (e *stubEncoder) EncodePNG(text string, size int) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []byte(fmt.Sprintf("png:%d:%s", size, text)), nil
}

type stubImageCache struct {
	entries  map[string][]byte
	fetchErr error
	storeErr error
}

func newStubImageCache() *stubImageCache {
	return &stubImageCache{entries: map[string][]byte{}}
}

func (c *stubImageCache) key(text string, size int) string {
	return fmt.Sprintf("%d|%s", size, text)
}

func (c *stubImageCache) Fetch(_ context.Context, text string, size int) ([]byte, bool, error) {
	if c.fetchErr != nil {
		return nil, false, c.fetchErr
	}
	png, ok := c.entries[c.key(text, size)]
	return png, ok, nil
}

func (c *stubImageCache) Store(_ context.Context, text string, size int, png []byte) error {
	if c.storeErr != nil {
		return c.storeErr
	}
	c.entries[c.key(text, size)] = png
	return nil
}

func newTestQRService(repo *stubQRCodeRepo, enc *stubEncoder, cache *stubImageCache) ports.QRCodeService {
	return NewQRCodeService(repo, enc, cache, 256, zerolog.Nop())
}

func TestQRCodeService_Generate_EmptyTextRejected(t *testing.T) {
	repo := newStubQRCodeRepo()
	enc := &stubEncoder{}
	svc := newTestQRService(repo, enc, newStubImageCache())

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: text, Save: true})
		if !errors.Is(err, domain.ErrEmptyText) {
			t.Fatalf("text %q: expected ErrEmptyText, got %v", text, err)
		}
	}
	if enc.calls != 0 {
		t.Fatalf("encoder must not run for empty text")
	}
	if len(repo.records) != 0 {
		t.Fatalf("nothing may be persisted for empty text")
	}
}

func TestQRCodeService_Generate_WithoutSave(t *testing.T) {
	repo := newStubQRCodeRepo()
	svc := newTestQRService(repo, &stubEncoder{}, newStubImageCache())

	result, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: "hello"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.PNG) == 0 {
		t.Fatalf("expected image bytes")
	}
	if result.Record != nil {
		t.Fatalf("no record expected without save, got %+v", result.Record)
	}
	if len(repo.records) != 0 {
		t.Fatalf("repository must stay empty without save")
	}
}

func TestQRCodeService_Generate_WithSave(t *testing.T) {
	repo := newStubQRCodeRepo()
	svc := newTestQRService(repo, &stubEncoder{}, newStubImageCache())

	result, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: "  padded  ", Save: true})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Record == nil || result.Record.ID == "" {
		t.Fatalf("expected persisted record with id, got %+v", result.Record)
	}
	// The text is stored exactly as submitted.
	if result.Record.Text != "  padded  " {
		t.Fatalf("text must not be normalized, got %q", result.Record.Text)
	}
	if result.Record.UserID != "u1" {
		t.Fatalf("record must carry the owner, got %q", result.Record.UserID)
	}
	if result.Record.CreatedAt.IsZero() {
		t.Fatalf("record must carry a creation timestamp")
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected one stored record, got %d", len(repo.records))
	}
}

func TestQRCodeService_Generate_CacheHitSkipsEncoder(t *testing.T) {
	repo := newStubQRCodeRepo()
	enc := &stubEncoder{}
	cache := newStubImageCache()
	svc := newTestQRService(repo, enc, cache)

	first, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: "hi"})
	if err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	second, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u2", Text: "hi"})
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if enc.calls != 1 {
		t.Fatalf("expected encoder to run once, ran %d times", enc.calls)
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Fatalf("cache hit must return identical bytes")
	}
}

func TestQRCodeService_Generate_CacheFaultsAreNotFatal(t *testing.T) {
	repo := newStubQRCodeRepo()
	enc := &stubEncoder{}
	cache := newStubImageCache()
	cache.fetchErr = errors.New("redis down")
	cache.storeErr = errors.New("redis down")
	svc := newTestQRService(repo, enc, cache)

	result, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: "hi"})
	if err != nil {
		t.Fatalf("generate must survive cache faults, got %v", err)
	}
	if len(result.PNG) == 0 {
		t.Fatalf("expected image bytes")
	}
	if enc.calls != 1 {
		t.Fatalf("expected fallback to the encoder")
	}
}

func TestQRCodeService_Generate_EncoderError(t *testing.T) {
	repo := newStubQRCodeRepo()
	enc := &stubEncoder{err: errors.New("content too long")}
	svc := newTestQRService(repo, enc, newStubImageCache())

	_, err := svc.Generate(context.Background(), ports.GenerateQRCodeInput{UserID: "u1", Text: "x", Save: true})
	if err == nil {
		t.Fatalf("expected encoder error to propagate")
	}
	if len(repo.records) != 0 {
		t.Fatalf("nothing may be persisted when encoding fails")
	}
}

func TestQRCodeService_ListByOwner_Isolation(t *testing.T) {
	repo := newStubQRCodeRepo()
	svc := newTestQRService(repo, &stubEncoder{}, newStubImageCache())

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	repo.records = []domain.QRCode{
		{ID: "qr-1", UserID: "alice", Text: "a1", CreatedAt: base},
		{ID: "qr-2", UserID: "bob", Text: "b1", CreatedAt: base.Add(time.Minute)},
		{ID: "qr-3", UserID: "alice", Text: "a2", CreatedAt: base.Add(2 * time.Minute)},
	}

	got, err := svc.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for alice, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "qr-3" || got[1].ID != "qr-1" {
		t.Fatalf("expected newest-first order, got %+v", got)
	}
	for _, rec := range got {
		if rec.UserID != "alice" {
			t.Fatalf("foreign record leaked into alice's history: %+v", rec)
		}
	}
}

func TestQRCodeService_ListAllWithOwner(t *testing.T) {
	repo := newStubQRCodeRepo()
	repo.owners = map[string]string{"u1": "alice", "u2": "bob"}
	repo.records = []domain.QRCode{
		{ID: "qr-1", UserID: "u1", Text: "a", CreatedAt: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)},
		{ID: "qr-2", UserID: "u2", Text: "b", CreatedAt: time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC)},
	}
	svc := newTestQRService(repo, &stubEncoder{}, newStubImageCache())

	got, err := svc.ListAllWithOwner(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].OwnerUsername != "bob" || got[1].OwnerUsername != "alice" {
		t.Fatalf("expected owner usernames newest first, got %+v", got)
	}
}

func TestQRCodeService_Delete(t *testing.T) {
	repo := newStubQRCodeRepo()
	repo.records = []domain.QRCode{{ID: "qr-1", UserID: "u1", Text: "a"}}
	svc := newTestQRService(repo, &stubEncoder{}, newStubImageCache())

	if err := svc.Delete(context.Background(), "qr-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("record should be gone")
	}
	if err := svc.Delete(context.Background(), "qr-1"); !errors.Is(err, domain.ErrQRCodeNotFound) {
		t.Fatalf("expected ErrQRCodeNotFound, got %v", err)
	}
}
