package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	h := Handler()
	Register()

	SearchesTotal.WithLabelValues("fanout").Inc()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "searches_total") {
		t.Error("searches_total missing from scrape output")
	}
}

func TestSyncRuns_Labels(t *testing.T) {
	before := testutil.ToFloat64(SyncRuns.WithLabelValues("TGS", "ok"))
	SyncRuns.WithLabelValues("TGS", "ok").Inc()

	if got := testutil.ToFloat64(SyncRuns.WithLabelValues("TGS", "ok")); got != before+1 {
		t.Errorf("sync_runs_total = %v, want %v", got, before+1)
	}
}
