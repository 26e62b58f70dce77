package api

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	imagepkg "github.com/youruser/posterapp/internal/image"
	"github.com/youruser/posterapp/internal/poster"
	"github.com/youruser/posterapp/internal/preset"
)

// maxSeed bounds seeds handed out by the "new pattern" button.
const maxSeed = 10000

const maxThumb = 2000

// errBadRequest marks client errors that are not param validation failures.
var errBadRequest = errors.New("bad request")

type renderQuery struct {
	Format string `form:"format"`
	Thumb  int    `form:"thumb"`
}

func statusFor(err error) int {
	if errors.Is(err, poster.ErrInvalidParams) || errors.Is(err, errBadRequest) || errors.Is(err, imagepkg.ErrUnsupportedFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindParams starts from the configured defaults and overlays whatever the
// request carries: JSON body on POST, query string otherwise.
func (s *Server) bindParams(c *gin.Context) (poster.Params, error) {
	p := s.cfg.Defaults
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&p)
	} else {
		err = c.ShouldBindQuery(&p)
	}
	if err != nil {
		return p, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// renderPoster composes, rasterizes and encodes a poster.
func (s *Server) renderPoster(p poster.Params, rq renderQuery) ([]byte, string, error) {
	name := rq.Format
	if name == "" {
		name = s.cfg.Render.Format
	}
	format, err := imagepkg.ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	if rq.Thumb < 0 || rq.Thumb > maxThumb {
		return nil, "", fmt.Errorf("%w: thumb must be in [0, %d]", errBadRequest, maxThumb)
	}

	start := time.Now()
	canvas := s.composer.Compose(p)
	img, err := imagepkg.Render(canvas, s.cfg.Render.Options())
	if err != nil {
		s.renderFailed()
		return nil, "", fmt.Errorf("render: %w", err)
	}
	if rq.Thumb > 0 {
		img = imagepkg.Thumbnail(img, rq.Thumb)
	}
	b, err := imagepkg.EncodeBytes(img, format, s.cfg.Render.JPEGQuality)
	if err != nil {
		s.renderFailed()
		return nil, "", fmt.Errorf("encode: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveRender(strings.ToLower(format.String()), time.Since(start))
	}
	return b, imagepkg.ContentType(format), nil
}

func (s *Server) renderFailed() {
	if s.metrics != nil {
		s.metrics.RenderFailed()
	}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// seedHandler draws a fresh seed for the "new pattern" button. It never
// touches a poster's stream.
func seedHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seed": rand.IntN(maxSeed)})
}

// posterHandler returns the poster image for params in the query or JSON body.
func (s *Server) posterHandler(c *gin.Context) {
	p, err := s.bindParams(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var rq renderQuery
	if err := c.ShouldBindQuery(&rq); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	b, contentType, err := s.renderPoster(p, rq)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, b)
}

// sceneHandler returns the composed primitives as JSON.
func (s *Server) sceneHandler(c *gin.Context) {
	p, err := s.bindParams(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	canvas := s.composer.Compose(p)
	c.JSON(http.StatusOK, gin.H{
		"params":  p,
		"canvas":  canvas,
		"summary": preset.ExportText("", p),
	})
}

// qrHandler returns a QR code PNG of the permalink for the given params.
func (s *Server) qrHandler(c *gin.Context) {
	p, err := s.bindParams(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	size := 256
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: size: %v", errBadRequest, err))
			return
		}
		size = n
	}
	b, err := imagepkg.GenerateQRPNG(permalink(c, p), size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// cardHandler returns the poster with a footer holding its settings and QR code.
func (s *Server) cardHandler(c *gin.Context) {
	p, err := s.bindParams(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	img, err := imagepkg.Render(s.composer.Compose(p), s.cfg.Render.Options())
	if err != nil {
		s.renderFailed()
		abortWithError(c, err)
		return
	}
	qr, err := imagepkg.GenerateQRImage(permalink(c, p), 256)
	if err != nil {
		abortWithError(c, err)
		return
	}
	label := fmt.Sprintf("seed %d · %d flowers", p.Seed, p.FlowerCount)
	card, err := imagepkg.ComposeShareCard(img, qr, label)
	if err != nil {
		abortWithError(c, err)
		return
	}
	b, err := imagepkg.EncodeBytes(card, imaging.PNG, 0)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) presetsHandler(c *gin.Context) {
	var opt preset.FilterOptions
	if err := c.ShouldBindQuery(&opt); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	out := preset.Filter(s.presets, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "presets": out})
}

func (s *Server) presetHandler(c *gin.Context) {
	p, ok := preset.Find(s.presets, c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
		return
	}
	summary := preset.ExportText(p.Name, p.Params)
	p.Params = panelParams(p.Params)
	c.JSON(http.StatusOK, gin.H{"preset": p, "summary": summary})
}

func (s *Server) presetPosterHandler(c *gin.Context) {
	p, ok := preset.Find(s.presets, c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
		return
	}
	var rq renderQuery
	if err := c.ShouldBindQuery(&rq); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	b, contentType, err := s.renderPoster(p.Params, rq)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, b)
}

func (s *Server) panelHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "panel.html", gin.H{
		"Defaults":       panelParams(s.cfg.Defaults),
		"MinFlowerCount": poster.MinFlowerCount,
		"MaxFlowerCount": poster.MaxFlowerCount,
		"MinTextSize":    poster.MinTextSize,
		"MaxTextSize":    poster.MaxTextSize,
		"Extent":         poster.PlacementExtent,
		"Presets":        s.presets,
	})
}

// panelParams rewrites the text color as #rrggbb, the only form an HTML
// color input keeps.
func panelParams(p poster.Params) poster.Params {
	if hex, err := poster.HexColor(p.TextColor); err == nil {
		p.TextColor = hex
	}
	return p
}

// paramsQuery encodes p the way bindParams reads it back.
func paramsQuery(p poster.Params) url.Values {
	p = panelParams(p)
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return url.Values{
		"text":         {p.Text},
		"text_x":       {f(p.TextX)},
		"text_y":       {f(p.TextY)},
		"text_size":    {f(p.TextSize)},
		"text_color":   {p.TextColor},
		"flower_count": {strconv.Itoa(p.FlowerCount)},
		"seed":         {strconv.FormatInt(p.Seed, 10)},
	}
}

// permalink points back at the control panel with p preselected.
func permalink(c *gin.Context, p poster.Params) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: "/", RawQuery: paramsQuery(p).Encode()}
	return u.String()
}
