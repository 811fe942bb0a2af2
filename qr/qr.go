package qr

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// ModuleSize is the edge length of one QR module in pixels.
const ModuleSize = 5

type Encoder struct {
	level qrcode.RecoveryLevel
}

// NewEncoder returns an encoder using the lowest error-correction level.
func NewEncoder() Encoder {
	return Encoder{level: qrcode.Low}
}

// Encode renders content as a PNG.
func (e Encoder) Encode(content string) ([]byte, error) {
	return qrcode.Encode(content, e.level, -ModuleSize)
}

// DataURI renders content as a PNG data URI suitable for an <img> src.
func (e Encoder) DataURI(content string) (string, error) {
	png, err := e.Encode(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
