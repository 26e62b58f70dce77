package poster

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColor is returned when a color is neither a known name nor a hex string.
var ErrUnknownColor = errors.New("unknown color")

// FlowerColor is a named fill color a flower can be drawn in.
type FlowerColor string

const (
	Pink   FlowerColor = "pink"
	Red    FlowerColor = "red"
	Purple FlowerColor = "purple"
	Orange FlowerColor = "orange"
)

// Palette is the ordered set of flower colors. Order matters: the composer
// picks colors by index.
var Palette = []FlowerColor{Pink, Red, Purple, Orange}

// MarkerColor fills the dot at every flower center.
const MarkerColor = "yellow"

// CSS color names the renderer understands without a hex prefix.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"pink":   "#ffc0cb",
	"red":    "#ff0000",
	"purple": "#800080",
	"orange": "#ffa500",
	"yellow": "#ffff00",
	"green":  "#008000",
	"blue":   "#0000ff",
	"gray":   "#808080",
	"grey":   "#808080",
}

// InPalette reports whether c is one of the flower palette colors.
func InPalette(c FlowerColor) bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// ParseColor resolves a color name or "#rgb"/"#rrggbb" string to an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	if !strings.HasPrefix(key, "#") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor normalizes a color name or short hex string to "#rrggbb".
func HexColor(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex(), nil
}

// WithAlpha returns c with its alpha channel set from a [0,1] opacity.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	switch {
	case alpha <= 0:
		c.A = 0
	case alpha >= 1:
		c.A = 0xff
	default:
		c.A = uint8(alpha*255 + 0.5)
	}
	return c
}
