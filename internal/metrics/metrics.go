package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChatMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collab_chat_messages_total",
		Help: "Total number of chat messages posted by users",
	})
	BotRepliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collab_chat_bot_replies_total",
		Help: "Total number of automatic bot replies",
	})
	CollabRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_requests_total",
		Help: "Collaboration requests by outcome (created or existing)",
	}, []string{"outcome"})
	CollabResponsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_request_responses_total",
		Help: "Collaboration request responses by decision",
	}, []string{"decision"})
	ProjectsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collab_projects_deleted_total",
		Help: "Total number of deleted projects",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		ChatMessagesTotal,
		BotRepliesTotal,
		CollabRequestsTotal,
		CollabResponsesTotal,
		ProjectsDeletedTotal,
		HttpRequestsTotal,
		HttpRequestDuration,
	)
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
