package api

import (
	"github.com/youruser/posterapp/internal/config"
	"github.com/youruser/posterapp/internal/metrics"
	"github.com/youruser/posterapp/internal/poster"
	"github.com/youruser/posterapp/internal/preset"
)

// Server carries what the handlers need. It holds no per-request state;
// every poster is composed with its own random stream.
type Server struct {
	cfg      config.Config
	composer *poster.Composer
	metrics  *metrics.Registry
	presets  []preset.Preset
}

// NewServer wires handlers to their collaborators. m may be nil to disable metrics.
func NewServer(cfg config.Config, composer *poster.Composer, m *metrics.Registry, presets []preset.Preset) *Server {
	if composer == nil {
		composer = poster.NewComposer()
	}
	return &Server{cfg: cfg, composer: composer, metrics: m, presets: presets}
}
