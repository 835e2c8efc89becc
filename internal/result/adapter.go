// Package result normalizes raw engine payloads into the typed entities the
// rendering pipeline works with, and derives per-trade statistics from them.
package result

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/quantlens/quantlens/internal/core"
)

// RawBacktest is the summary record as delivered by the engine. Pointer
// fields let the adapter tell an absent field from a zero value.
type RawBacktest struct {
	ID             *int64   `json:"id"`
	Ticker         *string  `json:"ticker"`
	StrategyName   *string  `json:"strategy_name"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	InitialCapital *float64 `json:"initial_capital"`
	FinalValue     *float64 `json:"final_value"`
	TotalReturn    *float64 `json:"total_return"`
	SharpeRatio    *float64 `json:"sharpe_ratio"`
	MaxDrawdown    *float64 `json:"max_drawdown"`
	NumTrades      *int     `json:"num_trades"`
	Status         *string  `json:"status"`
	CreatedAt      *string  `json:"created_at"`
	CompletedAt    *string  `json:"completed_at"`
}

// RawTrade is a trade record as delivered by the engine. Price, shares, and
// capital are legitimately absent for some trade kinds.
type RawTrade struct {
	Date      *string  `json:"date"`
	TradeType *string  `json:"trade_type"`
	Price     *float64 `json:"price"`
	Shares    *float64 `json:"shares"`
	Capital   *float64 `json:"capital"`
}

// RawHistoryPoint is one portfolio-history row as delivered by the engine.
type RawHistoryPoint struct {
	Date           *string  `json:"date"`
	PortfolioValue *float64 `json:"portfolio_value"`
	StockPrice     *float64 `json:"stock_price"`
	SharesHeld     *float64 `json:"shares_held"`
}

// RawDetail is the full detail response for one backtest.
type RawDetail struct {
	Backtest         RawBacktest       `json:"backtest"`
	Trades           []RawTrade        `json:"trades"`
	PortfolioHistory []RawHistoryPoint `json:"portfolio_history"`
}

// returnTolerance bounds the accepted drift between the reported final value
// and initial_capital*(1+total_return/100). The engine stores currency at
// cent precision and the return percentage at four decimals.
const returnTolerance = 0.01

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// AdaptBacktest validates and converts the raw summary record. A summary
// missing any required field is rejected, never coerced; the one exception
// is sharpe_ratio, where an explicit null is the engine's encoding of an
// undefined ratio (zero return variance) and passes through as nil.
func AdaptBacktest(raw RawBacktest) (core.Backtest, []core.Warning, error) {
	var missing []string
	requireString(&missing, "ticker", raw.Ticker)
	requireString(&missing, "start_date", raw.StartDate)
	requireString(&missing, "end_date", raw.EndDate)
	requireString(&missing, "status", raw.Status)
	if raw.InitialCapital == nil {
		missing = append(missing, "initial_capital")
	}
	if raw.FinalValue == nil {
		missing = append(missing, "final_value")
	}
	if raw.TotalReturn == nil {
		missing = append(missing, "total_return")
	}
	if raw.MaxDrawdown == nil {
		missing = append(missing, "max_drawdown")
	}
	if raw.NumTrades == nil {
		missing = append(missing, "num_trades")
	}
	if len(missing) > 0 {
		return core.Backtest{}, nil, core.WrapError(core.ErrFieldMissing,
			fmt.Errorf("summary record: %s", strings.Join(missing, ", ")))
	}

	start, err := time.Parse(core.DateLayout, *raw.StartDate)
	if err != nil {
		return core.Backtest{}, nil, core.WrapError(core.ErrRecordInvalid, fmt.Errorf("start_date: %w", err))
	}
	end, err := time.Parse(core.DateLayout, *raw.EndDate)
	if err != nil {
		return core.Backtest{}, nil, core.WrapError(core.ErrRecordInvalid, fmt.Errorf("end_date: %w", err))
	}

	b := core.Backtest{
		Ticker:         *raw.Ticker,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: *raw.InitialCapital,
		FinalValue:     *raw.FinalValue,
		TotalReturn:    *raw.TotalReturn,
		SharpeRatio:    raw.SharpeRatio,
		MaxDrawdown:    *raw.MaxDrawdown,
		NumTrades:      *raw.NumTrades,
		Status:         core.Status(*raw.Status),
	}
	if raw.ID != nil {
		b.ID = *raw.ID
	}
	if raw.StrategyName != nil {
		b.StrategyName = *raw.StrategyName
	}
	if raw.CreatedAt != nil {
		if ts, ok := parseTimestamp(*raw.CreatedAt); ok {
			b.CreatedAt = ts
		}
	}
	if raw.CompletedAt != nil {
		if ts, ok := parseTimestamp(*raw.CompletedAt); ok {
			b.CompletedAt = &ts
		}
	}

	// The reported final value and total return must agree by invariant.
	// A mismatch is surfaced as a warning and both figures stay untouched.
	var warnings []core.Warning
	expected := b.InitialCapital * (1 + b.TotalReturn/100)
	if math.Abs(expected-b.FinalValue) > returnTolerance {
		warnings = append(warnings, core.Warning{
			Kind: core.WarnReturnMismatch,
			Message: fmt.Sprintf("final_value %.2f disagrees with initial_capital*(1+total_return/100) = %.2f",
				b.FinalValue, expected),
		})
	}

	return b, warnings, nil
}

// AdaptTrades converts raw trade records. Optional fields pass through as
// nil. Rows without a parseable date are dropped with a warning so one bad
// row cannot take down the timeline; order violations are flagged but kept.
func AdaptTrades(raws []RawTrade) ([]core.Trade, []core.Warning) {
	var warnings []core.Warning
	trades := make([]core.Trade, 0, len(raws))

	var prev time.Time
	for i, raw := range raws {
		if raw.Date == nil || raw.TradeType == nil {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedTrades,
				Message: fmt.Sprintf("trade %d dropped: missing date or trade_type", i),
			})
			continue
		}
		date, err := time.Parse(core.DateLayout, *raw.Date)
		if err != nil {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedTrades,
				Message: fmt.Sprintf("trade %d dropped: bad date %q", i, *raw.Date),
			})
			continue
		}
		if len(trades) > 0 && date.Before(prev) {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedTrades,
				Message: fmt.Sprintf("trade %d dated %s before preceding trade", i, *raw.Date),
			})
		}
		prev = date
		trades = append(trades, core.Trade{
			Date:    date,
			Type:    core.TradeType(*raw.TradeType),
			Price:   raw.Price,
			Shares:  raw.Shares,
			Capital: raw.Capital,
		})
	}

	return trades, warnings
}

// AdaptHistory converts raw portfolio-history rows, dropping rows missing
// their required fields with a warning.
func AdaptHistory(raws []RawHistoryPoint) ([]core.PortfolioPoint, []core.Warning) {
	var warnings []core.Warning
	points := make([]core.PortfolioPoint, 0, len(raws))

	for i, raw := range raws {
		if raw.Date == nil || raw.PortfolioValue == nil || raw.StockPrice == nil {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedHistory,
				Message: fmt.Sprintf("history row %d dropped: missing date, portfolio_value or stock_price", i),
			})
			continue
		}
		date, err := time.Parse(core.DateLayout, *raw.Date)
		if err != nil {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedHistory,
				Message: fmt.Sprintf("history row %d dropped: bad date %q", i, *raw.Date),
			})
			continue
		}
		points = append(points, core.PortfolioPoint{
			Date:           date,
			PortfolioValue: *raw.PortfolioValue,
			AssetPrice:     *raw.StockPrice,
			SharesHeld:     raw.SharesHeld,
		})
	}

	return points, warnings
}

// Adapt converts a full detail response. Only an invalid summary record is
// fatal; malformed trade or history rows degrade to warnings so the rest of
// the view still renders.
func Adapt(raw RawDetail) (core.BacktestDetail, error) {
	backtest, warnings, err := AdaptBacktest(raw.Backtest)
	if err != nil {
		return core.BacktestDetail{}, err
	}

	trades, tw := AdaptTrades(raw.Trades)
	history, hw := AdaptHistory(raw.PortfolioHistory)
	warnings = append(warnings, tw...)
	warnings = append(warnings, hw...)

	return core.BacktestDetail{
		Backtest: backtest,
		Trades:   trades,
		History:  history,
		Warnings: warnings,
	}, nil
}

func requireString(missing *[]string, name string, v *string) {
	if v == nil || *v == "" {
		*missing = append(*missing, name)
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
