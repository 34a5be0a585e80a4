package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// requestLogger logs one line per request once it completes.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Str(ContextKeyRequestID, c.GetString(ContextKeyRequestID)).
			Msg("request")
	}
}

// bodyLimit caps the request body. Requests announcing a larger body are
// rejected before reading.
func bodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			fail(c, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// recovery turns handler panics into a 500 envelope.
func recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error().
			Interface("panic", err).
			Str(ContextKeyRequestID, c.GetString(ContextKeyRequestID)).
			Msg("handler panic")
		fail(c, http.StatusInternalServerError, ErrInternal)
	})
}
