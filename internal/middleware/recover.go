package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/utils"
)

func Recover(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				traceID := TraceID(c)
				log.WithFields(logrus.Fields{
					"trace_id": traceID,
					"path":     c.Request.URL.Path,
					"panic":    r,
				}).Error("[PANIC] " + string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorWithTrace(constant.CodeSystemError, traceID))
			}
		}()
		c.Next()
	}
}
