package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/quantlens/quantlens/internal/core"
)

func day(s string) time.Time {
	d, _ := time.Parse(core.DateLayout, s)
	return d
}

func fptr(v float64) *float64 { return &v }

func TestRender_EmptyTradeList(t *testing.T) {
	view, err := Render(nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !view.Empty {
		t.Fatal("expected the explicit empty state")
	}
	if view.Message != "No trades executed yet" {
		t.Errorf("empty message = %q", view.Message)
	}
}

func TestRender_BuyAndSellKeepOrderAndStyle(t *testing.T) {
	trades := []core.Trade{
		{Date: day("2024-01-05"), Type: core.TradeBuy, Price: fptr(150.25), Shares: fptr(66.56)},
		{Date: day("2024-02-01"), Type: core.TradeSell, Price: fptr(160), Shares: fptr(66.56), Capital: fptr(10649.60)},
	}

	view, err := Render(trades)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if view.Empty {
		t.Fatal("view with trades must not be empty")
	}
	if len(view.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(view.Events))
	}

	buy := view.Events[0]
	if buy.CSSClass != "trade-buy" || buy.Date != "2024-01-05" {
		t.Errorf("unexpected buy event: %+v", buy)
	}
	if !buy.HasPrice || buy.Price != "$150.25" {
		t.Errorf("buy price = %q (has=%v)", buy.Price, buy.HasPrice)
	}
	if buy.HasCapital {
		t.Error("buy without capital must not show one")
	}

	sell := view.Events[1]
	if sell.CSSClass != "trade-sell" {
		t.Errorf("sell class = %q", sell.CSSClass)
	}
	if !sell.HasCapital || sell.Capital != "$10,649.60" {
		t.Errorf("sell capital = %q (has=%v)", sell.Capital, sell.HasCapital)
	}
}

func TestRender_ZeroCapitalHidden(t *testing.T) {
	trades := []core.Trade{
		{Date: day("2024-01-05"), Type: core.TradeSell, Capital: fptr(0)},
	}

	view, err := Render(trades)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if view.Events[0].HasCapital {
		t.Error("zero capital must be hidden")
	}
}

func TestRender_UnknownTypeIsAnError(t *testing.T) {
	trades := []core.Trade{
		{Date: day("2024-01-05"), Type: core.TradeType("HOLD")},
	}

	_, err := Render(trades)
	if err == nil {
		t.Fatal("unknown trade type must fail, not default-style")
	}
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Code != core.ErrUnknownTradeType.Code {
		t.Errorf("expected unknown-trade-type error, got %v", err)
	}
}
