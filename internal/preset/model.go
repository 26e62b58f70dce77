package preset

import "github.com/youruser/posterapp/internal/poster"

// Preset is a named, reusable set of poster parameters.
type Preset struct {
	Name   string        `json:"name"`
	Params poster.Params `json:"params"`
	Tags   []string      `json:"tags"`
	Source string        `json:"source"`
}
