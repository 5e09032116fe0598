package printing

import (
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 160

// QRDataURI encodes content as a PNG QR code inlined as a data URI, so the
// receipt renders without fetching anything.
func QRDataURI(content string, size int) (template.URL, error) {
	if content == "" {
		return "", fmt.Errorf("qr content is empty")
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
