package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/utils"
)

const (
	SignatureHeader = "X-Signature"
	TimestampHeader = "X-Timestamp"
)

// AdminSignParams are the values an admin request signature covers: the query
// parameters, the method, the path, the millisecond timestamp and the raw body.
func AdminSignParams(r *http.Request, timestamp string, body []byte) map[string]string {
	params := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	params["method"] = r.Method
	params["path"] = r.URL.Path
	params["timestamp"] = timestamp
	params["body"] = string(body)
	return params
}

// AdminAuth guards the merchant settings API with an HMAC-SHA256 signature
// over AdminSignParams and a timestamp window.
func AdminAuth(secret string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorWithTrace(constant.CodeUnauthorized, TraceID(c)))
		}
		if secret == "" {
			reject()
			return
		}
		sig := c.GetHeader(SignatureHeader)
		tsHeader := c.GetHeader(TimestampHeader)
		if sig == "" || tsHeader == "" {
			reject()
			return
		}
		ts, err := utils.ParseTimestamp(tsHeader)
		if err != nil || !utils.IsTimestampValid(ts, time.Now(), window) {
			reject()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		params := AdminSignParams(c.Request, tsHeader, body)
		params["sign"] = sig
		if !utils.VerifySign(params, secret) {
			reject()
			return
		}
		c.Next()
	}
}
