// Package report assembles the complete presentation of one completed
// backtest: metric cards, the joined chart timeline, the trade timeline,
// and the strategy details panel. The same report feeds the web page, the
// chart API, the CLI output, and archive snapshots.
package report

import (
	"fmt"
	"strings"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/format"
	"github.com/quantlens/quantlens/internal/result"
	"github.com/quantlens/quantlens/internal/series"
	"github.com/quantlens/quantlens/internal/timeline"
)

// Card is one headline metric tile.
type Card struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Sub      string `json:"sub,omitempty"`
	CSSClass string `json:"css_class,omitempty"`
}

// Details is the strategy details panel.
type Details struct {
	Ticker      string `json:"ticker"`
	Strategy    string `json:"strategy"`
	Period      string `json:"period"`
	TotalTrades int    `json:"total_trades"`
	WinRate     string `json:"win_rate"`
	Status      string `json:"status"`
}

// Report is the full renderable result of one backtest. Sections degrade
// independently: a timeline that fails to render leaves its error in
// TimelineErr while the cards and chart still carry their data.
type Report struct {
	ID          int64           `json:"id"`
	Cards       []Card          `json:"cards"`
	Details     Details         `json:"details"`
	Chart       series.Timeline `json:"chart"`
	Timeline    timeline.View   `json:"timeline"`
	TimelineErr string          `json:"timeline_error,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// Build assembles the report for an adapted detail. Only a non-completed
// run is refused outright; data problems inside individual sections are
// reported on the section and do not block the others.
func Build(detail core.BacktestDetail) (Report, error) {
	b := detail.Backtest
	if !b.IsCompleted() {
		return Report{}, core.ErrNotCompleted
	}

	profit := b.Profit()
	band := format.ClassifyReturn(profit)

	chart, chartWarnings := series.Build(detail.History, detail.Trades)

	rep := Report{
		ID: b.ID,
		Cards: []Card{
			{
				Label:    "Total Profit/Loss",
				Value:    format.Currency(profit),
				Sub:      format.SignedPercent(b.TotalReturn),
				CSSClass: band.CSSClass(),
			},
			{
				Label: "Final Portfolio Value",
				Value: format.Currency(b.FinalValue),
				Sub:   "from " + format.Currency(b.InitialCapital),
			},
			{
				Label: "Sharpe Ratio",
				Value: format.Number(b.SharpeRatio),
				Sub:   format.ClassifySharpePtr(b.SharpeRatio),
			},
			{
				Label: "Max Drawdown",
				Value: format.SignedPercent(b.MaxDrawdown),
				Sub:   pluralTrades(b.NumTrades),
			},
		},
		Details: Details{
			Ticker:      b.Ticker,
			Strategy:    strings.ReplaceAll(b.StrategyName, "_", " "),
			Period:      b.StartDate.Format(core.DateLayout) + " to " + b.EndDate.Format(core.DateLayout),
			TotalTrades: b.NumTrades,
			WinRate:     winRateLabel(detail.Trades),
			Status:      string(b.Status),
		},
		Chart: chart,
	}

	tl, err := timeline.Render(detail.Trades)
	if err != nil {
		rep.TimelineErr = err.Error()
	} else {
		rep.Timeline = tl
	}

	for _, w := range detail.Warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	for _, w := range chartWarnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}

	return rep, nil
}

// winRateLabel reports the per-trade win rate, or a placeholder when no
// round trip could be scored.
func winRateLabel(trades []core.Trade) string {
	stats := result.CalculateTradeStats(trades)
	if stats.RoundTrips == 0 {
		return format.Placeholder
	}
	return fmt.Sprintf("%.0f%%", stats.WinRate)
}

func pluralTrades(n int) string {
	if n == 1 {
		return "1 trade executed"
	}
	return fmt.Sprintf("%d trades executed", n)
}
