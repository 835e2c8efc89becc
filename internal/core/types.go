package core

import "time"

// DateLayout is the calendar-day format used on the engine wire and as the
// chart join key. Portfolio history and trades carry no time component.
const DateLayout = "2006-01-02"

// Status represents the lifecycle state of a backtest run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRunning   Status = "running"
)

// TradeType is the direction of an executed trade.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Backtest is the summary record of one simulated strategy run.
// Instances are immutable once adapted from an engine response.
type Backtest struct {
	ID             int64
	Ticker         string
	StrategyName   string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	FinalValue     float64
	TotalReturn    float64  // signed percentage
	SharpeRatio    *float64 // nil when the engine reports undefined (zero variance)
	MaxDrawdown    float64  // negative or zero percentage
	NumTrades      int
	Status         Status
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// IsCompleted reports whether the run finished and may be rendered.
func (b Backtest) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// Profit is the canonical win/loss quantity. Display code derives sign,
// color, and labels from this, never from TotalReturn.
func (b Backtest) Profit() float64 {
	return b.FinalValue - b.InitialCapital
}

// Trade is a single simulated execution. Price, Shares, and Capital are
// optional on the wire and stay nil for non-market events.
type Trade struct {
	Date    time.Time
	Type    TradeType
	Price   *float64
	Shares  *float64
	Capital *float64
}

// PortfolioPoint is one sampled day of the run. Portfolio value and the
// underlying asset price share the date key.
type PortfolioPoint struct {
	Date           time.Time
	PortfolioValue float64
	AssetPrice     float64
	SharesHeld     *float64
}

// BacktestDetail bundles everything the detail endpoint returns for one run,
// plus any data-quality warnings found while adapting it.
type BacktestDetail struct {
	Backtest Backtest
	Trades   []Trade
	History  []PortfolioPoint
	Warnings []Warning
}

// WarningKind classifies non-fatal data-quality findings.
type WarningKind string

const (
	WarnReturnMismatch   WarningKind = "return_mismatch"
	WarnUnorderedHistory WarningKind = "unordered_history"
	WarnUnorderedTrades  WarningKind = "unordered_trades"
	WarnDateUnmatched    WarningKind = "date_unmatched"
	WarnTradeOutOfRange  WarningKind = "trade_out_of_range"
)

// Warning records a data-consistency issue that must not abort rendering.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}
