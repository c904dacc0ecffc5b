package handler

import (
	"time"

	"github.com/qrvault/qrvault/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type generateQRCodeRequest struct {
	Text string `json:"text" validate:"required"`
	// Save persists the code to the caller's history.
	Save bool `json:"save"`
}

// Response-only types owned by the transport layer, kept separate from
// domain types so the JSON contract is not coupled to internal changes.

type qrCodeResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type generateQRCodeResponse struct {
	// ImagePNG is the base64-encoded PNG payload.
	ImagePNG string          `json:"image_png"`
	Record   *qrCodeResponse `json:"record,omitempty"`
}

type listQRCodesResponse struct {
	Data []qrCodeResponse `json:"data"`
}

type qrCodeWithOwnerResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type listAllQRCodesResponse struct {
	Data []qrCodeWithOwnerResponse `json:"data"`
}

type listUsernamesResponse struct {
	Usernames []string `json:"usernames"`
}

func toQRCodeResponse(code domain.QRCode) qrCodeResponse {
	return qrCodeResponse{
		ID:        code.ID,
		Text:      code.Text,
		CreatedAt: code.CreatedAt,
	}
}
