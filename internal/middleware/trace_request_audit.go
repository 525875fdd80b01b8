package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/utils"
)

const (
	TraceHeader  = "X-Trace-ID"
	traceCtxKey  = "trace_id"
	maxAuditBody = 4 << 10
)

// TraceAudit gives every request a trace id, visible to the services through
// the request context, and records body, status and latency in the audit log.
func TraceAudit(audit *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Set(traceCtxKey, traceID)
		c.Request = c.Request.WithContext(utils.ContextWithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(TraceHeader, traceID)
		start := time.Now()

		c.Next()

		body := string(bodyBytes)
		if len(body) > maxAuditBody {
			body = body[:maxAuditBody] + "...(truncated)"
		}
		audit.WithFields(logrus.Fields{
			"trace_id":     traceID,
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"query":        c.Request.URL.RawQuery,
			"ip":           utils.GetRealClientIP(c),
			"status":       c.Writer.Status(),
			"latency_ms":   time.Since(start).Milliseconds(),
			"request_body": body,
		}).Info("[AUDIT]")
	}
}

// TraceID returns the id TraceAudit assigned, "" outside of it.
func TraceID(c *gin.Context) string {
	return c.GetString(traceCtxKey)
}
