package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_records_stored_total",
		Help: "Content records persisted by the ingestion loop",
	}, []string{"platform"})
	DuplicatesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_duplicates_skipped_total",
		Help: "Candidates skipped because they were already stored",
	}, []string{"platform"})
	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_pages_fetched_total",
		Help: "Upstream pages fetched",
	}, []string{"platform"})
	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_fetch_errors_total",
		Help: "Ingest runs abandoned because of a page fetch error",
	}, []string{"platform"})
	AuthorLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_author_lookups_total",
		Help: "Author resolutions by outcome (cached, stored, created, failed)",
	}, []string{"platform", "outcome"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingester_api_retries_total",
		Help: "Upstream API retry attempts",
	}, []string{"platform"})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingester_run_duration_seconds",
		Help:    "Duration of scheduled runs across all topics",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	})
	RunFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingester_run_failures_total",
		Help: "Scheduled runs that failed before processing topics",
	})
)

func init() {
	prometheus.MustRegister(
		RecordsStored,
		DuplicatesSkipped,
		PagesFetched,
		FetchErrors,
		AuthorLookups,
		APIRetries,
		RunDuration,
		RunFailures,
	)
}

// ObserveRun records a scheduled run duration.
func ObserveRun(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRetry increments the retry counter for a platform.
func IncAPIRetry(platform string) { APIRetries.WithLabelValues(platform).Inc() }

// Serve exposes /metrics and /health on addr until ctx is cancelled.
// An empty addr disables the server.
func Serve(ctx context.Context, addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
}
