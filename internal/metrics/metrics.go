// Package metrics holds the Prometheus collectors for the ranking engine and HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking
	RankingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_popular_requests_total",
			Help: "Popularity ranking requests by outcome",
		},
		[]string{"outcome"}, // "ok", "rejected", "error"
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmorate_popular_duration_seconds",
			Help:    "Time spent loading and ranking the catalog",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendations
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_recommendation_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmorate_recommendation_duration_seconds",
			Help:    "Time spent selecting a neighbor and resolving films",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendedFilms = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmorate_recommended_films",
			Help:    "Number of films returned per recommendation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Likes
	LikeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_like_mutations_total",
			Help: "Like add/remove operations",
		},
		[]string{"action"}, // "add", "remove"
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordAPIRequest records one served request. route should be the route pattern, not the raw path.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
