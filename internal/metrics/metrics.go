package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MembershipChanges counts favorite / shopping cart transitions.
	// kind: favorite, shopping_cart; op: add, remove; result: ok, duplicate, absent.
	MembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_changes_total",
			Help: "Favorite and shopping cart add/remove attempts by outcome",
		},
		[]string{"kind", "op", "result"},
	)

	SubscriptionChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_subscription_changes_total",
			Help: "Subscribe and unsubscribe attempts by outcome",
		},
		[]string{"op", "result"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Number of generated shopping list documents",
		},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of aggregated ingredient lines per shopping list",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_cache_hits_total",
			Help: "Reference data cache hits by entry kind",
		},
		[]string{"kind"},
	)

	CatalogCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_cache_misses_total",
			Help: "Reference data cache misses by entry kind",
		},
		[]string{"kind"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_events_published_total",
			Help: "Domain events handed to the broker by routing key and result",
		},
		[]string{"routing_key", "result"},
	)
)
