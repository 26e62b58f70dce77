package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/youruser/posterapp/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LogRequest middleware logs details of request.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !logging.Enabled(zerolog.DebugLevel) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		addr := c.GetHeader("X-Real-IP")
		if addr == "" {
			addr = c.GetHeader("X-Forwarded-For")
			if addr == "" {
				addr = c.Request.RemoteAddr
			}
		}
		log.Debug().
			Str("method", c.Request.Method).
			Int("status", c.Writer.Status()).
			Str("path", c.Request.URL.Path).
			Str("addr", addr).
			Str("request_id", c.GetString(requestIDHeader)).
			Str("duration", time.Since(start).String()).
			Msg("http request")
	}
}
