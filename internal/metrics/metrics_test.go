package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposure(t *testing.T) {
	RecordsStored.WithLabelValues("video").Add(2)
	DuplicatesSkipped.WithLabelValues("video").Inc()
	PagesFetched.WithLabelValues("video").Inc()
	FetchErrors.WithLabelValues("microblog").Inc()
	AuthorLookups.WithLabelValues("video", "created").Inc()
	IncAPIRetry("video")
	RunFailures.Inc()
	ObserveRun(time.Now().Add(-1500 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, m := range []string{
		"ingester_records_stored_total",
		"ingester_duplicates_skipped_total",
		"ingester_pages_fetched_total",
		"ingester_fetch_errors_total",
		"ingester_author_lookups_total",
		"ingester_api_retries_total",
		"ingester_run_duration_seconds",
		"ingester_run_failures_total",
	} {
		assert.Contains(t, body, m)
	}
}
