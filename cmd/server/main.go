package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/youruser/posterapp/internal/api"
	"github.com/youruser/posterapp/internal/config"
	imagepkg "github.com/youruser/posterapp/internal/image"
	"github.com/youruser/posterapp/internal/logging"
	"github.com/youruser/posterapp/internal/metrics"
	"github.com/youruser/posterapp/internal/poster"
	"github.com/youruser/posterapp/internal/preset"
	"github.com/youruser/posterapp/internal/util"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:          "posterapp",
		Short:        "Flower poster generator",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	config.DefineFlags(root)
	root.AddCommand(serve, newRenderCommand(), newVersionCommand())
	return root
}

// loadConfig reads .env when present, then config file, env and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return config.Config{}, fmt.Errorf("error loading .env: %w", err)
		}
	}
	configFile, _ := cmd.Flags().GetString("config")
	cfg, meta, err := config.Load(cmd, configFile)
	if err != nil {
		return cfg, err
	}
	if meta.FileNotFound && configFile != "" {
		log.Warn().Str("path", configFile).Msg("config file not found, using defaults")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control panel HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLog, err := logging.Setup(cfg.Log)
			if err != nil {
				return err
			}
			if closeLog != nil {
				defer closeLog()
			}
			return serve(cfg)
		},
	}
	config.DefineFlags(cmd)
	return cmd
}

func serve(cfg config.Config) error {
	m, err := metrics.New(metrics.Config{})
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}

	// Presets are best-effort: the panel works without them.
	presets, err := preset.LoadFromDataDir(cfg.DataDir)
	if err != nil {
		log.Warn().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to load presets at startup")
	} else {
		log.Info().Int("count", len(presets)).Msg("presets loaded")
	}

	gin.SetMode(gin.ReleaseMode)
	s := api.NewServer(cfg, poster.NewComposer(m.ComposeHook()), m, presets)
	r := api.NewEngine(s)

	addr := net.JoinHostPort(cfg.HTTP.Address, fmt.Sprint(cfg.HTTP.Port))
	log.Info().Str("addr", addr).Msg("starting server on http://" + addr)
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRenderCommand() *cobra.Command {
	var (
		out   string
		thumb int
		p     = poster.DefaultParams()
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one poster to a PNG or JPEG file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLog, err := logging.Setup(cfg.Log)
			if err != nil {
				return err
			}
			if closeLog != nil {
				defer closeLog()
			}
			if err := p.Validate(); err != nil {
				return err
			}
			if err := renderToFile(p, cfg.Render, out, thumb); err != nil {
				return err
			}
			log.Info().Str("out", out).Int64("seed", p.Seed).Msg("poster written")
			return nil
		},
	}
	config.DefineFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "poster.png", "output file, format taken from the extension")
	cmd.Flags().IntVar(&thumb, "thumb", 0, "scale the poster down to fit this many pixels")
	cmd.Flags().StringVar(&p.Text, "text", p.Text, "caption text")
	cmd.Flags().Float64Var(&p.TextX, "text-x", p.TextX, "caption x position")
	cmd.Flags().Float64Var(&p.TextY, "text-y", p.TextY, "caption y position")
	cmd.Flags().Float64Var(&p.TextSize, "text-size", p.TextSize, "caption font size")
	cmd.Flags().StringVar(&p.TextColor, "text-color", p.TextColor, "caption color, name or #hex")
	cmd.Flags().IntVarP(&p.FlowerCount, "flowers", "n", p.FlowerCount, "number of flowers")
	cmd.Flags().Int64VarP(&p.Seed, "seed", "s", p.Seed, "random seed")
	return cmd
}

// renderToFile composes p, rasterizes it with r and writes the encoded
// image to out.
func renderToFile(p poster.Params, r config.Render, out string, thumb int) error {
	format, err := imagepkg.ParseFormat(strings.TrimPrefix(filepath.Ext(out), "."))
	if err != nil {
		return err
	}
	img, err := imagepkg.Render(poster.Compose(p), r.Options())
	if err != nil {
		return err
	}
	if thumb > 0 {
		img = imagepkg.Thumbnail(img, thumb)
	}
	b, err := imagepkg.EncodeBytes(img, format, r.JPEGQuality)
	if err != nil {
		return err
	}
	return util.WriteFile(out, b)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "posterapp %s %s\n", version, runtime.Version())
		},
	}
}
