package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "external_requests_total", Help: "Outbound provider HTTP requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator", Name: "external_request_duration_seconds",
			Help:    "Outbound provider HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	SupplierCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "supplier_calls_total", Help: "Supplier searches by outcome."},
		[]string{"provider", "outcome"}, // outcome: ok|error|timeout
	)
	SupplierLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator", Name: "supplier_call_duration_seconds",
			Help:    "Supplier search duration seconds.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider"},
	)
	CandidateEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "photo_candidates_total", Help: "Photo candidates by outcome."},
		[]string{"provider", "outcome"}, // outcome: accepted|low_resolution|duplicate|malformed
	)
	HotelOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "hotels_total", Help: "Curated hotels by outcome and reason."},
		[]string{"outcome", "reason"}, // outcome: accepted|rejected|incomplete|failed|not_processed
	)
	BudgetRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "curator", Name: "call_budget_remaining", Help: "Supplier calls left in the shared budget."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "curator", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		SupplierCalls, SupplierLatency, CandidateEvents, HotelOutcomes,
		BudgetRemaining, CacheEvents,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes reg on addr until ctx is done. An empty addr disables it.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveSupplier(provider, outcome string, dur time.Duration) {
	SupplierCalls.WithLabelValues(provider, outcome).Inc()
	SupplierLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func ObserveCandidate(provider, outcome string) {
	CandidateEvents.WithLabelValues(provider, outcome).Inc()
}

func ObserveHotel(outcome, reason string) {
	HotelOutcomes.WithLabelValues(outcome, reason).Inc()
}

func SetBudgetRemaining(n int) {
	BudgetRemaining.Set(float64(n))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
