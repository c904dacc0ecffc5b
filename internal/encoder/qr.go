// Package encoder produces QR code images from arbitrary text.
package encoder

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// QRCodeEncoder encodes text into PNG images using medium error correction.
// Encoding is deterministic: the same text and size always yield the same
// payload, which is what makes the image cache safe.
type QRCodeEncoder struct{}

func NewQRCodeEncoder() *QRCodeEncoder {
	return &QRCodeEncoder{}
}

// EncodePNG renders text as a size x size pixel PNG.
func (e *QRCodeEncoder) EncodePNG(text string, size int) ([]byte, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("qr scale: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}
