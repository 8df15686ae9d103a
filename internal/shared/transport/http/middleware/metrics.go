package middleware

import (
	"time"

	"Racetrack/internal/shared/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 按路由模板（而不是实际路径）记录请求数和耗时，避免 uid 撑爆标签基数。
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
