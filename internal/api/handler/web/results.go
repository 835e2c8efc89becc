// internal/api/handler/web/results.go
package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/quantlens/quantlens/internal/report"
	"github.com/quantlens/quantlens/internal/view"
	"go.uber.org/zap"
)

// ResultsData feeds the results template.
type ResultsData struct {
	Title     string
	ID        int64
	Error     string
	Report    *report.Report
	ChartJSON template.JS
}

// Results renders the full result view for one backtest. The fetch goes
// through the viewer, so a request that loses a navigation race is told the
// view has moved on instead of rendering another backtest's data.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request, id int64) {
	<-h.viewer.Show(r.Context(), id)

	st := h.viewer.State()
	if st.ActiveID != id {
		// Another navigation superseded this one; its response was discarded.
		http.Error(w, "view moved to another backtest", http.StatusConflict)
		return
	}

	data := ResultsData{Title: "Backtest Result", ID: id}

	switch st.Phase {
	case view.PhaseReady:
		rep, err := report.Build(*st.Detail)
		if err != nil {
			data.Error = userMessage(err)
			break
		}
		data.Report = &rep
		if chart, err := json.Marshal(rep.Chart); err == nil {
			data.ChartJSON = template.JS(chart)
		}
	case view.PhaseFailed:
		h.logger.Warn("result fetch failed", zap.Int64("id", id), zap.Error(st.Err))
		data.Error = userMessage(st.Err)
		// A previously displayed detail, if any, stays visible.
		if st.Detail != nil {
			if rep, err := report.Build(*st.Detail); err == nil {
				data.Report = &rep
			}
		}
	}

	h.render(w, "results.html", data)
}
