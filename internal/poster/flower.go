package poster

import "math"

// FlowerSpec is the randomized parameter set of one flower.
type FlowerSpec struct {
	Center Point       `json:"center"`
	Radius float64     `json:"radius"`
	Petals int         `json:"petals"`
	Wobble float64     `json:"wobble"`
	Color  FlowerColor `json:"color"`
}

// DefaultFlower returns a spec centered on (x, y) with the stock styling:
// radius 1, six petals, wobble 0.1, pink.
func DefaultFlower(x, y float64) FlowerSpec {
	return FlowerSpec{
		Center: Point{X: x, Y: y},
		Radius: 1.0,
		Petals: 6,
		Wobble: 0.1,
		Color:  Pink,
	}
}

// DrawFlower appends one flower to c. Each petal consumes two draws from rs,
// x jitter then y jitter, in ascending petal order. Inputs are expected to be
// validated by the caller: Radius > 0, Petals >= 1, Wobble >= 0.
func DrawFlower(c *Canvas, rs *Stream, spec FlowerSpec) {
	x, y := spec.Center.X, spec.Center.Y
	color := string(spec.Color)

	petals := make([]Petal, 0, spec.Petals)
	for i := 0; i < spec.Petals; i++ {
		angle := float64(i) * 2 * math.Pi / float64(spec.Petals)
		dx := rs.Uniform(-spec.Wobble, spec.Wobble)
		dy := rs.Uniform(-spec.Wobble, spec.Wobble)
		tip := Point{
			X: x + spec.Radius*math.Cos(angle) + dx,
			Y: y + spec.Radius*math.Sin(angle) + dy,
		}
		petals = append(petals, Petal{
			Stem:  Line{From: spec.Center, To: tip, Color: color, Width: StemWidth, Alpha: StemAlpha},
			Bloom: Disc{Center: tip, Radius: spec.Radius / 2, Color: color, Alpha: BloomAlpha},
		})
	}

	c.Flowers = append(c.Flowers, Flower{
		Spec:   spec,
		Petals: petals,
		Marker: Marker{At: spec.Center, Size: spec.Radius * MarkerScale, Color: MarkerColor},
	})
}
