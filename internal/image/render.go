package imagepkg

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/youruser/posterapp/internal/poster"
)

// pointsPerCanvas is the reference figure edge in points: a 10in figure at 72pt/in.
const pointsPerCanvas = 720.0

type RenderOptions struct {
	Width      int
	Height     int
	Background string
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 1000, Height: 1000, Background: "#ffffff"}
}

// viewport maps world coordinates (y up) onto pixels (y down), keeping the
// aspect ratio equal and centering the canvas in the image.
type viewport struct {
	bounds  poster.Bounds
	scale   float64 // pixels per world unit
	ptScale float64 // pixels per point
	ox, oy  float64
}

func newViewport(b poster.Bounds, width, height int) viewport {
	side := math.Min(float64(width), float64(height))
	scale := side / math.Max(b.Width(), b.Height())
	return viewport{
		bounds:  b,
		scale:   scale,
		ptScale: side / pointsPerCanvas,
		ox:      (float64(width) - b.Width()*scale) / 2,
		oy:      (float64(height) - b.Height()*scale) / 2,
	}
}

func (v viewport) pt(p poster.Point) (float64, float64) {
	return v.ox + (p.X-v.bounds.Min.X)*v.scale, v.oy + (v.bounds.Max.Y-p.Y)*v.scale
}

// Render rasterizes c. Layering: all petal discs, then stems and center
// markers flower by flower, then the caption on top.
func Render(c *poster.Canvas, opt RenderOptions) (image.Image, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", opt.Width, opt.Height)
	}
	bg, err := poster.ParseColor(opt.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	dc := gg.NewContext(opt.Width, opt.Height)
	dc.SetColor(bg)
	dc.Clear()
	v := newViewport(c.Bounds, opt.Width, opt.Height)

	for _, f := range c.Flowers {
		for _, p := range f.Petals {
			if err := drawDisc(dc, v, p.Bloom); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range c.Flowers {
		for _, p := range f.Petals {
			if err := drawLine(dc, v, p.Stem); err != nil {
				return nil, err
			}
		}
		if err := drawMarker(dc, v, f.Marker); err != nil {
			return nil, err
		}
	}
	if c.Caption != nil {
		if err := drawCaption(dc, v, *c.Caption); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func drawLine(dc *gg.Context, v viewport, l poster.Line) error {
	col, err := poster.ParseColor(l.Color)
	if err != nil {
		return err
	}
	x1, y1 := v.pt(l.From)
	x2, y2 := v.pt(l.To)
	dc.SetColor(poster.WithAlpha(col, l.Alpha))
	dc.SetLineWidth(l.Width * v.ptScale)
	dc.SetLineCapSquare()
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	return nil
}

func drawDisc(dc *gg.Context, v viewport, d poster.Disc) error {
	col, err := poster.ParseColor(d.Color)
	if err != nil {
		return err
	}
	x, y := v.pt(d.Center)
	dc.SetColor(poster.WithAlpha(col, d.Alpha))
	dc.DrawCircle(x, y, d.Radius*v.scale)
	dc.Fill()
	return nil
}

// marker size is a diameter in points
func drawMarker(dc *gg.Context, v viewport, m poster.Marker) error {
	col, err := poster.ParseColor(m.Color)
	if err != nil {
		return err
	}
	x, y := v.pt(m.At)
	dc.SetColor(col)
	dc.DrawCircle(x, y, m.Size*v.ptScale/2)
	dc.Fill()
	return nil
}

func drawCaption(dc *gg.Context, v viewport, cp poster.Caption) error {
	if cp.Text == "" {
		return nil
	}
	col, err := poster.ParseColor(cp.Color)
	if err != nil {
		return err
	}
	face, err := captionFace(cp.FontSize*v.ptScale, cp.Bold)
	if err != nil {
		return err
	}
	x, y := v.pt(cp.At)
	dc.SetFontFace(face)
	dc.SetColor(col)
	dc.DrawStringAnchored(cp.Text, x, y, 0.5, 0.5)
	return nil
}
