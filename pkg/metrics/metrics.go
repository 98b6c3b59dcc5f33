// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	UploadSuccess  = "success"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lostfound_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ItemsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lostfound_items_created_total",
			Help: "Total number of items created",
		},
	)

	CommentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lostfound_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	// ImageUploadsTotal counts uploads by outcome: success, rejected (type or
	// size) and failed (storage error).
	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_image_uploads_total",
			Help: "Total number of image uploads by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordImageUpload(outcome string) {
	ImageUploadsTotal.WithLabelValues(outcome).Inc()
}

func RecordItemCreated() {
	ItemsCreatedTotal.Inc()
}

func RecordCommentCreated() {
	CommentsCreatedTotal.Inc()
}
