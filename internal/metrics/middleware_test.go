package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPMiddleware(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	wrapped := HTTPMiddleware(reg)(handler)

	req := httptest.NewRequest("GET", "/api/backtests", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	// Verify metrics were recorded
	mfs, _ := reg.Gather()
	foundRequests := false
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			foundRequests = true
			break
		}
	}
	if !foundRequests {
		t.Error("expected http_requests_total to be recorded")
	}
}

func TestRegistry_BusinessCounters(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRunSubmitted("ok")
	reg.RecordDetailFetch("error")
	reg.RecordStaleDiscarded()
	reg.RecordDataWarning("return_mismatch")
	reg.RecordReportArchived("ok")
	reg.RecordInsight("ok")
	reg.RecordEngineDuration("get", 0.25)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	want := map[string]bool{
		"quantlens_runs_submitted_total":            false,
		"quantlens_detail_fetches_total":            false,
		"quantlens_stale_responses_discarded_total": false,
		"quantlens_data_warnings_total":             false,
		"quantlens_reports_archived_total":          false,
		"quantlens_insights_generated_total":        false,
		"quantlens_engine_request_duration_seconds": false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("metric %s not gathered", name)
		}
	}
}
