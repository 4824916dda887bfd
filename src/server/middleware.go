package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags every request with an id, stores a sub-logger carrying
// it in the context and writes one access line when the handler returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			id, err := uuid.NewV4()
			if err != nil {
				log.Warn().Err(err).Msg("can not generate request id")
			} else {
				requestID = id.String()
			}
		}
		c.Header(requestIDHeader, requestID)

		l := log.With().Str("requestId", requestID).Logger()
		c.Set(loggerKey, l)

		start := time.Now()
		c.Next()

		event := l.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = l.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("clientIp", c.ClientIP()).
			Msg("request handled")
	}
}

// Recovery answers a panicking handler with a JSON 500 instead of dropping
// the connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c).Error().Interface("recovered", recovered).Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	})
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if l, ok := value.(zerolog.Logger); ok {
			return &l
		}
	}
	l := log.Logger
	return &l
}
