package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, meta, err := Load(nil, "")
	require.NoError(t, err)
	require.True(t, meta.FileNotFound)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.yaml")
	content := `
http:
  port: 9090
render:
  width: 640
  height: 480
  format: jpeg
defaults:
  text: Spring
  flower_count: 12
  seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, meta, err := Load(nil, path)
	require.NoError(t, err)
	require.False(t, meta.FileNotFound)
	require.Equal(t, 9090, cfg.HTTP.Port)
	require.Equal(t, 640, cfg.Render.Width)
	require.Equal(t, 480, cfg.Render.Height)
	require.Equal(t, "jpeg", cfg.Render.Format)
	require.Equal(t, "Spring", cfg.Defaults.Text)
	require.Equal(t, 12, cfg.Defaults.FlowerCount)
	require.Equal(t, int64(7), cfg.Defaults.Seed)
	// untouched keys keep their defaults
	require.Equal(t, "#000000", cfg.Defaults.TextColor)
	require.Equal(t, 90, cfg.Render.JPEGQuality)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, meta, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.True(t, meta.FileNotFound)
	require.Equal(t, Default(), cfg)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("POSTER_HTTP_PORT", "9000")
	t.Setenv("POSTER_DEFAULTS_SEED", "123")

	cmd := &cobra.Command{Use: "test"}
	DefineFlags(cmd)
	require.NoError(t, cmd.Flags().Set("render.format", "jpg"))

	cfg, _, err := Load(cmd, "")
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.HTTP.Port)
	require.Equal(t, int64(123), cfg.Defaults.Seed)
	require.Equal(t, "jpg", cfg.Render.Format)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }},
		{"width", func(c *Config) { c.Render.Width = -1 }},
		{"format", func(c *Config) { c.Render.Format = "webp" }},
		{"quality", func(c *Config) { c.Render.JPEGQuality = 101 }},
		{"background", func(c *Config) { c.Render.Background = "plaid" }},
		{"defaults", func(c *Config) { c.Defaults.FlowerCount = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
