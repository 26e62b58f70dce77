// Package config contains the poster server Config and the code to load it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	imagepkg "github.com/youruser/posterapp/internal/image"
	"github.com/youruser/posterapp/internal/poster"
)

const envPrefix = "POSTER"

type Config struct {
	// HTTP is the control panel server configuration.
	HTTP HTTP `mapstructure:"http" json:"http"`
	// Log is a configuration for logging.
	Log Log `mapstructure:"log" json:"log"`
	// Render controls rasterization of composed posters.
	Render Render `mapstructure:"render" json:"render"`
	// DataDir holds preset CSV files.
	DataDir string `mapstructure:"data_dir" json:"data_dir"`
	// Defaults are the parameters the control panel starts with and the
	// values used for any parameter a request leaves out.
	Defaults poster.Params `mapstructure:"defaults" json:"defaults"`
}

type HTTP struct {
	Address string `mapstructure:"address" json:"address"`
	Port    int    `mapstructure:"port" json:"port"`
}

type Log struct {
	// Level is one of none, trace, debug, info, warn, error, fatal.
	Level string `mapstructure:"level" json:"level"`
	// File, when set, receives log output instead of stdout.
	File string `mapstructure:"file" json:"file"`
}

type Render struct {
	Width       int    `mapstructure:"width" json:"width"`
	Height      int    `mapstructure:"height" json:"height"`
	Format      string `mapstructure:"format" json:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality" json:"jpeg_quality"`
	Background  string `mapstructure:"background" json:"background"`
}

// Options converts the render section into rasterizer options.
func (r Render) Options() imagepkg.RenderOptions {
	return imagepkg.RenderOptions{Width: r.Width, Height: r.Height, Background: r.Background}
}

type Meta struct {
	FileNotFound bool
	ConfigFile   string
}

func Default() Config {
	ro := imagepkg.DefaultRenderOptions()
	return Config{
		HTTP: HTTP{Port: 8080},
		Log:  Log{Level: "info"},
		Render: Render{
			Width:       ro.Width,
			Height:      ro.Height,
			Format:      "png",
			JPEGQuality: 90,
			Background:  ro.Background,
		},
		DataDir:  "data",
		Defaults: poster.DefaultParams(),
	}
}

// DefineFlags registers flags whose names match config keys so they can be
// bound into viper directly.
func DefineFlags(cmd *cobra.Command) {
	d := Default()
	cmd.Flags().StringP("config", "c", "", "path to config file (yaml, toml or json)")
	cmd.Flags().StringP("http.address", "a", d.HTTP.Address, "interface address to listen on")
	cmd.Flags().IntP("http.port", "p", d.HTTP.Port, "port to bind HTTP server to")
	cmd.Flags().String("log.level", d.Log.Level, "log level: none, trace, debug, info, warn, error, fatal")
	cmd.Flags().String("log.file", d.Log.File, "optional log file")
	cmd.Flags().String("data_dir", d.DataDir, "directory with preset CSV files")
	cmd.Flags().Int("render.width", d.Render.Width, "poster width in pixels")
	cmd.Flags().Int("render.height", d.Render.Height, "poster height in pixels")
	cmd.Flags().String("render.format", d.Render.Format, "output format: png or jpeg")
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("http.address", d.HTTP.Address)
	v.SetDefault("http.port", d.HTTP.Port)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.format", d.Render.Format)
	v.SetDefault("render.jpeg_quality", d.Render.JPEGQuality)
	v.SetDefault("render.background", d.Render.Background)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("defaults.text", d.Defaults.Text)
	v.SetDefault("defaults.text_x", d.Defaults.TextX)
	v.SetDefault("defaults.text_y", d.Defaults.TextY)
	v.SetDefault("defaults.text_size", d.Defaults.TextSize)
	v.SetDefault("defaults.text_color", d.Defaults.TextColor)
	v.SetDefault("defaults.flower_count", d.Defaults.FlowerCount)
	v.SetDefault("defaults.seed", d.Defaults.Seed)
}

// Load builds Config from defaults, the optional config file, POSTER_*
// environment variables and cmd flags, in increasing priority.
func Load(cmd *cobra.Command, configFile string) (Config, Meta, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return Config{}, Meta{}, fmt.Errorf("error binding flags: %w", err)
		}
	}

	meta := Meta{ConfigFile: configFile}
	if configFile == "" {
		meta.FileNotFound = true
	} else {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, meta, fmt.Errorf("error reading config file: %w", err)
			}
			meta.FileNotFound = true
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, meta, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, meta, nil
}

// Validate checks values the server cannot run with.
func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if _, err := imagepkg.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("render.format: %w", err)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("render.jpeg_quality %d not in [1, 100]", c.Render.JPEGQuality)
	}
	if _, err := poster.ParseColor(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}
