package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/pretty"
)

const maxLoggedBody = 1000

// Logger access log; write requests include the compacted JSON body
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var body string
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			body = readBody(c)
		}

		c.Next()

		status := c.Writer.Status()
		if status == http.StatusNotFound {
			return
		}

		ctx := c.Request.Context()
		latency := time.Since(start)
		if body != "" {
			logger.InfoCtx(ctx, "[GIN] %3d | %13v | %15s | %s %s | body=%s",
				status, latency, c.ClientIP(), c.Request.Method, c.Request.RequestURI, body)
			return
		}
		logger.InfoCtx(ctx, "[GIN] %3d | %13v | %15s | %s %s",
			status, latency, c.ClientIP(), c.Request.Method, c.Request.RequestURI)
	}
}

func readBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	raw, _ := io.ReadAll(c.Request.Body)
	// reset so handlers can bind it again
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
	return CompressBody(string(raw))
}

// CompressBody strips JSON whitespace and truncates long bodies
func CompressBody(body string) string {
	if len(body) == 0 {
		return ""
	}
	compressed := pretty.Ugly([]byte(body))
	if len(compressed) > maxLoggedBody {
		return string(compressed[:maxLoggedBody]) + "..."
	}
	return string(compressed)
}
