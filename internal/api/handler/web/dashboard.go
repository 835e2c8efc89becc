// internal/api/handler/web/dashboard.go
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/format"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

// Engine is the collaborator surface the web pages need.
type Engine interface {
	Run(ctx context.Context, req engine.RunRequest) (result.RawBacktest, error)
	List(ctx context.Context) ([]result.RawBacktest, error)
}

// SummaryRow is one past backtest in the dashboard table.
type SummaryRow struct {
	ID       int64
	Ticker   string
	Period   string
	Return   string
	CSSClass string
	Status   string
}

// DashboardData feeds the dashboard template.
type DashboardData struct {
	Title     string
	Error     string
	Backtests []SummaryRow
}

// Dashboard renders the run form and the list of past backtests. An engine
// failure leaves the list empty with the error shown; the form still works.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := DashboardData{
		Title: "Backtests",
		Error: r.URL.Query().Get("error"),
	}

	summaries, err := h.engine.List(r.Context())
	if err != nil {
		h.logger.Warn("listing backtests", zap.Error(err))
		if data.Error == "" {
			data.Error = userMessage(err)
		}
	}

	for _, raw := range summaries {
		backtest, _, err := result.AdaptBacktest(raw)
		if err != nil {
			h.logger.Warn("skipping invalid summary", zap.Error(err))
			continue
		}
		data.Backtests = append(data.Backtests, SummaryRow{
			ID:       backtest.ID,
			Ticker:   backtest.Ticker,
			Period:   backtest.StartDate.Format(core.DateLayout) + " to " + backtest.EndDate.Format(core.DateLayout),
			Return:   format.SignedPercent(backtest.TotalReturn),
			CSSClass: format.ClassifyReturn(backtest.Profit()).CSSClass(),
			Status:   string(backtest.Status),
		})
	}

	h.render(w, "dashboard.html", data)
}

// SubmitRun handles the run form post and redirects to the new result page.
// Engine rejections are surfaced verbatim on the dashboard.
func (h *Handler) SubmitRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "invalid form submission")
		return
	}

	req := engine.RunRequest{
		Ticker:    r.FormValue("ticker"),
		StartDate: r.FormValue("start_date"),
		EndDate:   r.FormValue("end_date"),
	}
	req.InitialCapital, _ = strconv.ParseFloat(r.FormValue("initial_capital"), 64)
	req.ShortWindow, _ = strconv.Atoi(r.FormValue("short_window"))
	req.LongWindow, _ = strconv.Atoi(r.FormValue("long_window"))

	raw, err := h.engine.Run(r.Context(), req)
	if err != nil {
		h.redirectError(w, r, userMessage(err))
		return
	}

	if raw.ID == nil {
		h.redirectError(w, r, "engine returned no backtest identifier")
		return
	}
	http.Redirect(w, r, "/backtests/"+strconv.FormatInt(*raw.ID, 10), http.StatusSeeOther)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// userMessage extracts the engine's own error text when there is one, and
// falls back to a generic retryable message otherwise.
func userMessage(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr.Cause != nil {
		return coreErr.Cause.Error()
	}
	return "backtest service unavailable, please try again"
}
