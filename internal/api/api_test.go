package api

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/youruser/posterapp/internal/config"
	"github.com/youruser/posterapp/internal/metrics"
	"github.com/youruser/posterapp/internal/poster"
	"github.com/youruser/posterapp/internal/preset"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testPresets() []preset.Preset {
	spring := poster.DefaultParams()
	spring.Text = "Spring"
	spring.Seed = 7
	return []preset.Preset{
		{Name: "Hello", Params: poster.DefaultParams(), Tags: []string{"classic"}},
		{Name: "Spring", Params: spring, Tags: []string{"seasonal", "bright"}},
	}
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Render.Width = 200
	cfg.Render.Height = 200

	reg := prometheus.NewRegistry()
	m, err := metrics.New(metrics.Config{Registerer: reg, Gatherer: reg})
	require.NoError(t, err)

	s := NewServer(cfg, poster.NewComposer(m.ComposeHook()), m, testPresets())
	return NewEngine(s)
}

func do(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeImage(t *testing.T, b []byte) (image.Image, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img, format
}

func TestHealth(t *testing.T) {
	rec := do(newTestEngine(t), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestPosterGet(t *testing.T) {
	r := newTestEngine(t)
	rec := do(r, http.MethodGet, "/api/poster?seed=1&flower_count=3&text=Hi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, format := decodeImage(t, rec.Body.Bytes())
	require.Equal(t, "png", format)
	require.Equal(t, image.Pt(200, 200), img.Bounds().Size())

	again := do(r, http.MethodGet, "/api/poster?seed=1&flower_count=3&text=Hi", "")
	require.Equal(t, rec.Body.Bytes(), again.Body.Bytes())

	other := do(r, http.MethodGet, "/api/poster?seed=2&flower_count=3&text=Hi", "")
	require.NotEqual(t, rec.Body.Bytes(), other.Body.Bytes())
}

func TestPosterJPEGThumb(t *testing.T) {
	rec := do(newTestEngine(t), http.MethodGet, "/api/poster?format=jpeg&thumb=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	img, format := decodeImage(t, rec.Body.Bytes())
	require.Equal(t, "jpeg", format)
	require.Equal(t, image.Pt(50, 50), img.Bounds().Size())
}

func TestPosterPost(t *testing.T) {
	r := newTestEngine(t)
	rec := do(r, http.MethodPost, "/api/poster", `{"text":"Hi","seed":1,"flower_count":3,"text_color":"#ff0000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, format := decodeImage(t, rec.Body.Bytes())
	require.Equal(t, "png", format)

	get := do(r, http.MethodGet, "/api/poster?text=Hi&seed=1&flower_count=3&text_color=%23ff0000", "")
	require.Equal(t, rec.Body.Bytes(), get.Body.Bytes())
}

func TestPosterBadRequests(t *testing.T) {
	r := newTestEngine(t)
	for _, target := range []string{
		"/api/poster?flower_count=50",
		"/api/poster?flower_count=2",
		"/api/poster?seed=-3",
		"/api/poster?seed=abc",
		"/api/poster?text_color=sparkly",
		"/api/poster?text_size=500",
		"/api/poster?text_size=NaN",
		"/api/poster?text_x=NaN",
		"/api/poster?format=gif",
		"/api/poster?thumb=-1",
		"/api/poster/scene?flower_count=0",
		"/api/poster/qr?size=big",
	} {
		t.Run(target, func(t *testing.T) {
			rec := do(r, http.MethodGet, target, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body["error"])
		})
	}

	rec := do(r, http.MethodPost, "/api/poster", `{"seed":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScene(t *testing.T) {
	r := newTestEngine(t)
	rec := do(r, http.MethodGet, "/api/poster/scene?seed=1&flower_count=3&text=Hi&text_size=40&text_color=black", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Params  poster.Params `json:"params"`
		Canvas  poster.Canvas `json:"canvas"`
		Summary string        `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Canvas.Flowers, 3)
	require.NotNil(t, resp.Canvas.Caption)
	require.Equal(t, "Hi", resp.Canvas.Caption.Text)
	require.True(t, resp.Canvas.Caption.Bold)
	require.Equal(t, "text: Hi\nflowers: 3\nseed: 1", resp.Summary)

	want := poster.Compose(resp.Params)
	require.Equal(t, want.Centers(), resp.Canvas.Centers())
}

func TestSeed(t *testing.T) {
	r := newTestEngine(t)
	for i := 0; i < 20; i++ {
		rec := do(r, http.MethodGet, "/api/seed", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Seed int `json:"seed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.GreaterOrEqual(t, body.Seed, 0)
		require.Less(t, body.Seed, maxSeed)
	}
}

func TestQRAndCard(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodGet, "/api/poster/qr?seed=5&size=128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	img, _ := decodeImage(t, rec.Body.Bytes())
	require.Equal(t, 128, img.Bounds().Dx())

	rec = do(r, http.MethodGet, "/api/poster/card?seed=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	img, _ = decodeImage(t, rec.Body.Bytes())
	require.Equal(t, image.Pt(200, 236), img.Bounds().Size())
}

func TestPermalinkRoundTrip(t *testing.T) {
	p := poster.Params{Text: "Hi there", TextX: 1.5, TextY: -2.25, TextSize: 30, TextColor: "#00ff00", FlowerCount: 5, Seed: 99}
	r := newTestEngine(t)
	rec := do(r, http.MethodGet, "/api/poster/scene?"+paramsQuery(p).Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Params poster.Params `json:"params"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, p, resp.Params)
}

func TestPresets(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodGet, "/api/presets?tags=bright", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count   int             `json:"count"`
		Presets []preset.Preset `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "Spring", list.Presets[0].Name)

	rec = do(r, http.MethodGet, "/api/presets/spring", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `seed: 7"`)

	rec = do(r, http.MethodGet, "/api/presets/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/api/presets/Spring/poster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestPanelColorsAreHex(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.TextColor = "black"
	birthday := poster.DefaultParams()
	birthday.TextColor = "purple"
	s := NewServer(cfg, nil, nil, []preset.Preset{{Name: "Birthday", Params: birthday}})
	r := NewEngine(s)

	rec := do(r, http.MethodGet, "/api/presets/Birthday", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Preset preset.Preset `json:"preset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "#800080", resp.Preset.Params.TextColor)

	rec = do(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `id="text_color" value="#000000"`)

	require.Equal(t, "#800080", paramsQuery(birthday).Get("text_color"))
}

func TestPanel(t *testing.T) {
	rec := do(newTestEngine(t), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Flower Poster Generator")
	require.Contains(t, body, `id="flower_count" min="3" max="20"`)
	require.Contains(t, body, `data-preset="Spring"`)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine(t)
	do(r, http.MethodGet, "/api/poster?seed=3", "")

	rec := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `posterapp_posters_rendered_total{format="png"} 1`)
	require.Contains(t, rec.Body.String(), "posterapp_flowers_drawn_total 8")
}
