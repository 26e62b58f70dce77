package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat accepts "png", "jpeg" or "jpg".
func ParseFormat(s string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || (f != imaging.PNG && f != imaging.JPEG) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

func ContentType(f imaging.Format) string {
	if f == imaging.JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img in format f. quality only applies to JPEG.
func Encode(w io.Writer, img image.Image, f imaging.Format, quality int) error {
	return imaging.Encode(w, img, f, imaging.JPEGQuality(quality))
}

func EncodeBytes(img image.Image, f imaging.Format, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := Encode(buf, img, f, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to fit a size x size box.
func Thumbnail(img image.Image, size int) image.Image {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
