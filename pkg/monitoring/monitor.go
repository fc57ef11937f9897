package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 复习相关业务指标
	ReviewCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_reviews_total",
			Help: "Total number of review submissions by outcome",
		},
		[]string{"outcome"}, // success | failure
	)

	IngestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_questions_ingested_total",
			Help: "Total number of questions ingested by source",
		},
		[]string{"source"}, // message | poll | caption | manual | import
	)

	CacheRefreshCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_snapshot_refreshes_total",
			Help: "Total number of question snapshot reloads from the store",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ReviewCounter)
	prometheus.MustRegister(IngestCounter)
	prometheus.MustRegister(CacheRefreshCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
