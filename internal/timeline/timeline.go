// Package timeline turns the ordered trade list into the dated event
// sequence shown in the trade-history panel.
package timeline

import (
	"fmt"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/format"
)

// Event is one rendered trade. Formatted fields are ready for display;
// optional values carry both the string and a presence flag so templates
// can omit the row entirely, matching the original card layout.
type Event struct {
	Type       core.TradeType
	Date       string
	CSSClass   string // "trade-buy" or "trade-sell"
	Price      string
	HasPrice   bool
	Shares     string
	HasShares  bool
	Capital    string
	HasCapital bool
}

// View is the full timeline panel state. Empty distinguishes "no trades
// executed" from "nothing loaded yet": an empty view still renders, with an
// explicit message instead of a bare container.
type View struct {
	Events  []Event
	Empty   bool
	Message string
}

// Render builds the view for an ordered trade list. BUY and SELL are the
// only recognized types; anything else is a data error, not a default style.
func Render(trades []core.Trade) (View, error) {
	if len(trades) == 0 {
		return View{Empty: true, Message: "No trades executed yet"}, nil
	}

	events := make([]Event, 0, len(trades))
	for i, t := range trades {
		var class string
		switch t.Type {
		case core.TradeBuy:
			class = "trade-buy"
		case core.TradeSell:
			class = "trade-sell"
		default:
			return View{}, core.WrapError(core.ErrUnknownTradeType,
				fmt.Errorf("trade %d has type %q", i, t.Type))
		}

		e := Event{
			Type:     t.Type,
			Date:     t.Date.Format(core.DateLayout),
			CSSClass: class,
		}
		if t.Price != nil {
			e.Price = format.Currency(*t.Price)
			e.HasPrice = true
		}
		if t.Shares != nil {
			e.Shares = fmt.Sprintf("%.2f", *t.Shares)
			e.HasShares = true
		}
		// Capital is shown only when present and positive, like the
		// original trade cards.
		if t.Capital != nil && *t.Capital > 0 {
			e.Capital = format.Currency(*t.Capital)
			e.HasCapital = true
		}
		events = append(events, e)
	}

	return View{Events: events}, nil
}
