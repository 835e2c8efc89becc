package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Placeholder is rendered for absent optional values instead of failing.
const Placeholder = "—"

// Band is the qualitative color band of a return figure.
type Band string

const (
	BandPositive Band = "positive"
	BandNegative Band = "negative"
	BandNeutral  Band = "neutral"
)

// CSSClass maps a band to the stylesheet class used by the web templates.
func (b Band) CSSClass() string {
	switch b {
	case BandPositive:
		return "metric-positive"
	case BandNegative:
		return "metric-negative"
	default:
		return "metric-neutral"
	}
}

// Currency renders a dollar amount with two decimals and thousands grouping.
// Negative amounts get a leading minus sign, matching SignedPercent, never
// accounting parentheses.
func Currency(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// CurrencyPtr renders an optional dollar amount, with a placeholder when absent.
func CurrencyPtr(amount *float64) string {
	if amount == nil {
		return Placeholder
	}
	return Currency(*amount)
}

// SignedPercent renders a percentage to two decimals with an explicit "+"
// for non-negative values. Negative values carry their own minus sign.
func SignedPercent(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// SignedPercentPtr renders an optional percentage, with a placeholder when absent.
func SignedPercentPtr(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return SignedPercent(*value)
}

// Number renders a plain two-decimal figure or the placeholder when absent.
func Number(value *float64) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *value)
}

// ClassifyReturn assigns a return percentage to its color band.
// Exactly zero is neutral, not positive.
func ClassifyReturn(value float64) Band {
	switch {
	case value > 0:
		return BandPositive
	case value < 0:
		return BandNegative
	default:
		return BandNeutral
	}
}

// ClassifySharpe labels a Sharpe ratio. Thresholds are strict: exactly 1.0
// is "good" and exactly 0.5 is "poor", the lower band wins on the boundary.
func ClassifySharpe(value float64) string {
	switch {
	case value > 1:
		return "excellent"
	case value > 0.5:
		return "good"
	default:
		return "poor"
	}
}

// ClassifySharpePtr labels an optional Sharpe ratio; absent values get no label.
func ClassifySharpePtr(value *float64) string {
	if value == nil {
		return ""
	}
	return ClassifySharpe(*value)
}
