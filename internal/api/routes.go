package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

var panelTemplate = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// NewEngine returns a gin engine with middleware and all routes registered.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), LogRequest(), gin.Recovery())
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.SetHTMLTemplate(panelTemplate)
	r.GET("/", s.panelHandler)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/seed", seedHandler)
		api.GET("/poster", s.posterHandler)
		api.POST("/poster", s.posterHandler)
		api.GET("/poster/scene", s.sceneHandler)
		api.GET("/poster/qr", s.qrHandler)
		api.GET("/poster/card", s.cardHandler)
		api.GET("/presets", s.presetsHandler)
		api.GET("/presets/:name", s.presetHandler)
		api.GET("/presets/:name/poster", s.presetPosterHandler)
	}
}
