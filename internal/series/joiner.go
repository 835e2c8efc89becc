// Package series builds the single chart timeline out of the portfolio
// history and anchors discrete trade events onto it.
package series

import (
	"fmt"
	"time"

	"github.com/quantlens/quantlens/internal/core"
)

// Point is one plotted day: both series share the date key.
type Point struct {
	Date           string  `json:"date"`
	PortfolioValue float64 `json:"portfolio_value"`
	AssetPrice     float64 `json:"asset_price"`
}

// Marker is a trade event anchored on the timeline as a vertical line.
// Markers keep the delivery order of the trade list so that same-date
// trades stay distinct, tie-broken by their original position.
type Marker struct {
	Date       string         `json:"date"`
	Type       core.TradeType `json:"type"`
	OutOfRange bool           `json:"out_of_range,omitempty"`
}

// Timeline is the joined, date-ascending chart sequence plus its markers.
type Timeline struct {
	Points  []Point  `json:"points"`
	Markers []Marker `json:"markers"`
}

// Empty reports whether there is nothing to chart.
func (t Timeline) Empty() bool {
	return len(t.Points) == 0
}

// Build projects the portfolio history into chart points and anchors every
// trade at its own date. History already carries both series per date, so
// the join is a straight projection. Out-of-order history rows and trades
// dated outside the history range are flagged as warnings, never dropped.
func Build(history []core.PortfolioPoint, trades []core.Trade) (Timeline, []core.Warning) {
	var warnings []core.Warning

	points := make([]Point, 0, len(history))
	var prev time.Time
	for i, h := range history {
		if i > 0 && !h.Date.After(prev) {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnUnorderedHistory,
				Message: fmt.Sprintf("history date %s not after %s", h.Date.Format(core.DateLayout), prev.Format(core.DateLayout)),
			})
		}
		prev = h.Date
		points = append(points, Point{
			Date:           h.Date.Format(core.DateLayout),
			PortfolioValue: h.PortfolioValue,
			AssetPrice:     h.AssetPrice,
		})
	}

	markers := make([]Marker, 0, len(trades))
	for _, t := range trades {
		m := Marker{
			Date: t.Date.Format(core.DateLayout),
			Type: t.Type,
		}
		if len(history) > 0 {
			first := history[0].Date
			last := history[len(history)-1].Date
			if t.Date.Before(first) || t.Date.After(last) {
				m.OutOfRange = true
				warnings = append(warnings, core.Warning{
					Kind:    core.WarnTradeOutOfRange,
					Message: fmt.Sprintf("%s trade on %s outside history range %s..%s", t.Type, m.Date, first.Format(core.DateLayout), last.Format(core.DateLayout)),
				})
			}
		}
		markers = append(markers, m)
	}

	return Timeline{Points: points, Markers: markers}, warnings
}

// ValuePoint is one observation of a single date-keyed series, used when the
// engine ever delivers portfolio value and asset price separately.
type ValuePoint struct {
	Date  time.Time
	Value float64
}

// Join merges two independently-sourced series by date. A date present in
// only one series is dropped with a warning rather than producing a partial
// chart point. Output order follows the portfolio series.
func Join(portfolio, prices []ValuePoint) ([]Point, []core.Warning) {
	var warnings []core.Warning

	priceByDate := make(map[string]float64, len(prices))
	for _, p := range prices {
		priceByDate[p.Date.Format(core.DateLayout)] = p.Value
	}

	matched := make(map[string]bool, len(portfolio))
	points := make([]Point, 0, len(portfolio))
	for _, p := range portfolio {
		key := p.Date.Format(core.DateLayout)
		price, ok := priceByDate[key]
		if !ok {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnDateUnmatched,
				Message: fmt.Sprintf("portfolio value on %s has no asset price", key),
			})
			continue
		}
		matched[key] = true
		points = append(points, Point{
			Date:           key,
			PortfolioValue: p.Value,
			AssetPrice:     price,
		})
	}

	for _, p := range prices {
		key := p.Date.Format(core.DateLayout)
		if !matched[key] {
			warnings = append(warnings, core.Warning{
				Kind:    core.WarnDateUnmatched,
				Message: fmt.Sprintf("asset price on %s has no portfolio value", key),
			})
		}
	}

	return points, warnings
}
