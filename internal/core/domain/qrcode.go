package domain

import (
	"errors"
	"time"
)

var ErrQRCodeNotFound = errors.New("qr code not found")
var ErrEmptyText = errors.New("qr text must not be empty")

// QRCode is a saved generation event in a user's history. Records are never
// updated: they are created when a user opts to save a generated code and
// removed only by an explicit admin delete.
type QRCode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// QRCodeWithOwner is the admin-facing view of a record with the owner's
// username resolved.
type QRCodeWithOwner struct {
	ID            string    `json:"id"`
	OwnerUsername string    `json:"username"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}
