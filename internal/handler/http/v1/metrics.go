package v1

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/metrics"
)

// MetricsMiddleware считает запросы и их латентность по методу и маршруту
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			// Незарегистрированный маршрут (404), метка без параметров пути
			endpoint = c.Request.URL.Path
		}
		m.RequestCount.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestLatency.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
