package server

import (
	"time"

	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs every API request with timing. Health
// probes are skipped to keep the log usable during live auctions.
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	if c.Request.URL.Path == "/health" {
		return
	}
	utils.Info("http request", map[string]any{
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"status":    c.Writer.Status(),
		"latency":   time.Since(start).String(),
		"client_ip": c.ClientIP(),
	})
}
