package poster

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ErrInvalidParams wraps every validation failure of Params.
var ErrInvalidParams = errors.New("invalid poster params")

// Ranges the composer draws flower attributes from. Upper bounds are exclusive.
const (
	MinRadius = 1.0
	MaxRadius = 2.0
	MinPetals = 5
	MaxPetals = 10
	MinWobble = 0.1
	MaxWobble = 0.5
)

// Limits accepted by Params.Validate.
const (
	MinFlowerCount = 3
	MaxFlowerCount = 20
	MinTextSize    = 10.0
	MaxTextSize    = 100.0
	MaxTextLength  = 200
)

// Params is the caller supplied configuration of one poster.
type Params struct {
	Text        string  `json:"text" form:"text" mapstructure:"text"`
	TextX       float64 `json:"text_x" form:"text_x" mapstructure:"text_x"`
	TextY       float64 `json:"text_y" form:"text_y" mapstructure:"text_y"`
	TextSize    float64 `json:"text_size" form:"text_size" mapstructure:"text_size"`
	TextColor   string  `json:"text_color" form:"text_color" mapstructure:"text_color"`
	FlowerCount int     `json:"flower_count" form:"flower_count" mapstructure:"flower_count"`
	Seed        int64   `json:"seed" form:"seed" mapstructure:"seed"`
}

// DefaultParams mirrors the control panel's initial state.
func DefaultParams() Params {
	return Params{
		Text:        "Hello",
		TextSize:    40,
		TextColor:   "#000000",
		FlowerCount: 8,
		Seed:        42,
	}
}

// Validate checks p against the ranges the control panel exposes. Compose
// itself does not validate; callers reject bad input before composing.
func (p Params) Validate() error {
	if p.FlowerCount < MinFlowerCount || p.FlowerCount > MaxFlowerCount {
		return fmt.Errorf("%w: flower_count %d not in [%d, %d]", ErrInvalidParams, p.FlowerCount, MinFlowerCount, MaxFlowerCount)
	}
	if p.Seed < 0 {
		return fmt.Errorf("%w: seed must be non-negative, got %d", ErrInvalidParams, p.Seed)
	}
	if !(p.TextSize >= MinTextSize && p.TextSize <= MaxTextSize) {
		return fmt.Errorf("%w: text_size %g not in [%g, %g]", ErrInvalidParams, p.TextSize, MinTextSize, MaxTextSize)
	}
	textBounds := NewCanvas().Bounds
	if !textBounds.Contains(Point{X: p.TextX, Y: p.TextY}) {
		return fmt.Errorf("%w: text position (%g, %g) outside canvas", ErrInvalidParams, p.TextX, p.TextY)
	}
	if utf8.RuneCountInString(p.Text) > MaxTextLength {
		return fmt.Errorf("%w: text longer than %d characters", ErrInvalidParams, MaxTextLength)
	}
	if _, err := ParseColor(p.TextColor); err != nil {
		return fmt.Errorf("%w: text_color: %v", ErrInvalidParams, err)
	}
	return nil
}

// Compose builds a complete poster for p. The random stream is seeded here
// and nowhere else, so equal params always give identical canvases.
//
// Per flower the draw order is: x, y, radius, petal count, wobble, color,
// then two jitter draws per petal inside DrawFlower.
func Compose(p Params) *Canvas {
	c := NewCanvas()
	rs := NewStream(uint64(p.Seed))

	for i := 0; i < p.FlowerCount; i++ {
		x := rs.Uniform(-PlacementExtent, PlacementExtent)
		y := rs.Uniform(-PlacementExtent, PlacementExtent)
		spec := FlowerSpec{
			Center: Point{X: x, Y: y},
			Radius: rs.Uniform(MinRadius, MaxRadius),
			Petals: rs.IntRange(MinPetals, MaxPetals),
			Wobble: rs.Uniform(MinWobble, MaxWobble),
			Color:  rs.Choice(Palette),
		}
		DrawFlower(c, rs, spec)
	}

	c.SetCaption(Caption{
		Text:     p.Text,
		At:       Point{X: p.TextX, Y: p.TextY},
		FontSize: p.TextSize,
		Color:    p.TextColor,
		Bold:     true,
	})
	return c
}

// ComposeHook observes every finished composition.
type ComposeHook func(p Params, c *Canvas, took time.Duration)

// Composer runs Compose and notifies hooks. It holds no random state and is
// safe for concurrent use.
type Composer struct {
	hooks []ComposeHook
}

func NewComposer(hooks ...ComposeHook) *Composer {
	return &Composer{hooks: hooks}
}

func (cm *Composer) Compose(p Params) *Canvas {
	start := time.Now()
	c := Compose(p)
	took := time.Since(start)
	for _, h := range cm.hooks {
		h(p, c, took)
	}
	log.Debug().Int64("seed", p.Seed).Int("flowers", len(c.Flowers)).Int("petals", c.PetalCount()).Str("took", took.String()).Msg("poster composed")
	return c
}
