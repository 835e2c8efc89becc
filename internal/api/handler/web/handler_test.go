package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/result"
	"github.com/quantlens/quantlens/internal/view"
)

func sptr(s string) *string { return &s }

func fptr(f float64) *float64 { return &f }

func iptr(i int) *int { return &i }

func i64(i int64) *int64 { return &i }

func rawSummary(id int64) result.RawBacktest {
	return result.RawBacktest{
		ID:             i64(id),
		Ticker:         sptr("AAPL"),
		StrategyName:   sptr("ma_crossover"),
		StartDate:      sptr("2024-01-02"),
		EndDate:        sptr("2024-06-28"),
		InitialCapital: fptr(10000),
		FinalValue:     fptr(11500),
		TotalReturn:    fptr(15),
		SharpeRatio:    fptr(1.2),
		MaxDrawdown:    fptr(-8.3),
		NumTrades:      iptr(2),
		Status:         sptr("completed"),
	}
}

type fakeEngine struct {
	listErr error
	runErr  error
}

func (f *fakeEngine) Run(ctx context.Context, req engine.RunRequest) (result.RawBacktest, error) {
	if f.runErr != nil {
		return result.RawBacktest{}, f.runErr
	}
	return rawSummary(12), nil
}

func (f *fakeEngine) List(ctx context.Context) ([]result.RawBacktest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []result.RawBacktest{rawSummary(12)}, nil
}

func (f *fakeEngine) Get(ctx context.Context, id int64) (result.RawDetail, error) {
	return result.RawDetail{
		Backtest: rawSummary(id),
		Trades: []result.RawTrade{
			{Date: sptr("2024-01-05"), TradeType: sptr("BUY"), Price: fptr(100)},
			{Date: sptr("2024-02-01"), TradeType: sptr("SELL"), Price: fptr(110)},
		},
		PortfolioHistory: []result.RawHistoryPoint{
			{Date: sptr("2024-01-02"), PortfolioValue: fptr(10000), StockPrice: fptr(100)},
			{Date: sptr("2024-02-01"), PortfolioValue: fptr(11500), StockPrice: fptr(110)},
		},
	}, nil
}

func newTestHandler(t *testing.T, eng *fakeEngine) *Handler {
	t.Helper()
	h, err := NewHandler(eng, view.NewViewer(eng, nil), nil)
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	return h
}

func TestDashboard_ListsBacktests(t *testing.T) {
	h := newTestHandler(t, &fakeEngine{})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"AAPL", "+15.00%", "/backtests/12", "2024-01-02 to 2024-06-28"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboard_EngineFailureShowsErrorAndForm(t *testing.T) {
	h := newTestHandler(t, &fakeEngine{
		listErr: core.WrapError(core.ErrEngineUnavailable, errors.New("connection refused")),
	})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "connection refused") {
		t.Error("engine error text should be shown")
	}
	if !strings.Contains(body, "Run a Backtest") {
		t.Error("run form must survive an engine failure")
	}
}

func TestSubmitRun_RedirectsToResult(t *testing.T) {
	h := newTestHandler(t, &fakeEngine{})

	form := url.Values{
		"ticker":          {"aapl"},
		"start_date":      {"2024-01-02"},
		"end_date":        {"2024-06-28"},
		"initial_capital": {"10000"},
		"short_window":    {"20"},
		"long_window":     {"50"},
	}
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.SubmitRun(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/backtests/12" {
		t.Errorf("redirect = %q, want /backtests/12", loc)
	}
}

func TestSubmitRun_EngineRejectionSurfacedVerbatim(t *testing.T) {
	h := newTestHandler(t, &fakeEngine{
		runErr: core.WrapError(core.ErrEngineRejected, errors.New("Start date must be before end date")),
	})

	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader("ticker=AAPL"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.SubmitRun(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if got := loc.Query().Get("error"); got != "Start date must be before end date" {
		t.Errorf("error param = %q, want the engine's own message", got)
	}
}

func TestResults_RendersReport(t *testing.T) {
	h := newTestHandler(t, &fakeEngine{})

	rec := httptest.NewRecorder()
	h.Results(rec, httptest.NewRequest(http.MethodGet, "/backtests/12", nil), 12)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Total Profit/Loss", "$1,500.00", "metric-positive", "trade-buy", "ma crossover"} {
		if !strings.Contains(body, want) {
			t.Errorf("results page missing %q", want)
		}
	}
}
