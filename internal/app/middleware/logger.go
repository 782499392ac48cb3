package middleware

import (
	"net/http"
	"time"

	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Round(time.Millisecond).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request served")
	}
}

// Recovery turns a panic into the same 500 body a returned error produces.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fmtPanic(recovered)})
	})
}

func fmtPanic(recovered any) string {
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	if s, ok := recovered.(string); ok {
		return s
	}
	return "internal error"
}
