package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrimart_api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"op", "status"},
	)

	pollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrimart_poll_cycles_total",
			Help: "Total number of poll cycles per concern",
		},
		[]string{"concern", "status"},
	)

	courierFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrimart_courier_fallbacks_total",
			Help: "Orders degraded to the default courier status during a refresh",
		},
	)

	localRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agrimart_local_request_duration_seconds",
			Help:    "Duration of requests to the local status server",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)
)

// RecordAPIRequest counts one backend call by operation and outcome.
func RecordAPIRequest(op, status string) {
	apiRequestsTotal.WithLabelValues(op, status).Inc()
}

// RecordPollCycle counts one poll cycle for a concern.
func RecordPollCycle(concern string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	pollCyclesTotal.WithLabelValues(concern, status).Inc()
}

// RecordCourierFallback counts one order falling back to the default
// courier status.
func RecordCourierFallback() {
	courierFallbacksTotal.Inc()
}

// Middleware collects request metrics for the local status server.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		localRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
