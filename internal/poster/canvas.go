package poster

// Canvas geometry. Coordinates are world units with y pointing up.
const (
	CanvasExtent    = 10.0
	PlacementExtent = 8.0
)

// Stroke and fill styling shared by every flower. Widths and sizes are in
// typographic points so they stay constant whatever the output resolution.
const (
	StemWidth   = 6.0
	StemAlpha   = 0.7
	BloomAlpha  = 0.6
	MarkerScale = 10.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Line is a straight stroke between two points.
type Line struct {
	From  Point   `json:"from"`
	To    Point   `json:"to"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Alpha float64 `json:"alpha"`
}

// Disc is a filled circle with a radius in world units.
type Disc struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
	Alpha  float64 `json:"alpha"`
}

// Marker is a dot whose diameter is given in points, not world units.
type Marker struct {
	At    Point   `json:"at"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

type Petal struct {
	Stem  Line `json:"stem"`
	Bloom Disc `json:"bloom"`
}

type Flower struct {
	Spec   FlowerSpec `json:"spec"`
	Petals []Petal    `json:"petals"`
	Marker Marker     `json:"marker"`
}

// Caption is the text overlay, centered on At in both axes.
type Caption struct {
	Text     string  `json:"text"`
	At       Point   `json:"at"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
	Bold     bool    `json:"bold"`
}

// Canvas holds every primitive of one poster in drawing order.
type Canvas struct {
	Bounds  Bounds   `json:"bounds"`
	Flowers []Flower `json:"flowers"`
	Caption *Caption `json:"caption,omitempty"`
}

// NewCanvas returns an empty square canvas spanning [-CanvasExtent, CanvasExtent].
func NewCanvas() *Canvas {
	return &Canvas{
		Bounds: Bounds{
			Min: Point{X: -CanvasExtent, Y: -CanvasExtent},
			Max: Point{X: CanvasExtent, Y: CanvasExtent},
		},
	}
}

// SetCaption replaces the caption overlay.
func (c *Canvas) SetCaption(cp Caption) {
	c.Caption = &cp
}

// PetalCount is the total number of petals over all flowers.
func (c *Canvas) PetalCount() int {
	n := 0
	for _, f := range c.Flowers {
		n += len(f.Petals)
	}
	return n
}

// Centers lists flower centers in drawing order.
func (c *Canvas) Centers() []Point {
	out := make([]Point, 0, len(c.Flowers))
	for _, f := range c.Flowers {
		out = append(out, f.Spec.Center)
	}
	return out
}
