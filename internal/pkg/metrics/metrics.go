// Package metrics registers the Prometheus collectors of the portal.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pq_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UploadsTotal counts upload outcomes: success, invalid, blob_error, record_error, orphaned.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_uploads_total",
		Help: "Upload workflow outcomes.",
	}, []string{"status"})

	// DeletesTotal counts delete outcomes: success, blob_error, dangling.
	DeletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_deletes_total",
		Help: "Delete workflow outcomes.",
	}, []string{"status"})

	// DownloadsTotal counts download outcomes: success, not_found, error, stream_error.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_downloads_total",
		Help: "Download gateway outcomes.",
	}, []string{"status"})

	// DownloadBytesTotal counts streamed bytes.
	DownloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pq_download_bytes_total",
		Help: "Bytes streamed by the download gateway.",
	})

	// ViewEventsTotal counts view event writes: recorded, failed, dropped, unmatched.
	ViewEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_view_events_total",
		Help: "Detached view event writes.",
	}, []string{"status"})

	// ListingCacheTotal counts listing cache lookups: hit, miss, error, stale.
	ListingCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_listing_cache_total",
		Help: "Listing cache lookups.",
	}, []string{"result"})

	// CleanupTasksTotal counts reconciler outcomes: resolved, failed.
	CleanupTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pq_cleanup_tasks_total",
		Help: "Cleanup ledger reconciliation outcomes.",
	}, []string{"kind", "status"})
)

// Middleware records request count and latency. The route template is used
// as label so path parameters do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
