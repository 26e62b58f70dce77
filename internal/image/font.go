package imagepkg

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce   sync.Once
	boldFont    *truetype.Font
	regularFont *truetype.Font
	fontsErr    error
)

func loadFonts() {
	boldFont, fontsErr = truetype.Parse(gobold.TTF)
	if fontsErr != nil {
		fontsErr = fmt.Errorf("failed to parse bold font: %w", fontsErr)
		return
	}
	regularFont, fontsErr = truetype.Parse(goregular.TTF)
	if fontsErr != nil {
		fontsErr = fmt.Errorf("failed to parse regular font: %w", fontsErr)
	}
}

// captionFace returns a face of the given pixel size. Faces are cheap; the
// parsed fonts are shared.
func captionFace(size float64, bold bool) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	f := regularFont
	if bold {
		f = boldFont
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
