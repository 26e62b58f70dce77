package imagepkg

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	minQRSize = 64
	maxQRSize = 1024
)

func clampQRSize(size int) int {
	if size < minQRSize {
		return minQRSize
	}
	if size > maxQRSize {
		return maxQRSize
	}
	return size
}

// GenerateQRPNG returns PNG bytes of a QR code for text, size pixels square.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.PNG(clampQRSize(size))
}

// GenerateQRImage returns the QR code as an image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.Image(clampQRSize(size)), nil
}
