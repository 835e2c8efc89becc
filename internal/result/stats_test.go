package result

import (
	"testing"
	"time"

	"github.com/quantlens/quantlens/internal/core"
)

func tradeAt(tt core.TradeType, date string, price float64) core.Trade {
	d, _ := time.Parse(core.DateLayout, date)
	return core.Trade{Date: d, Type: tt, Price: &price}
}

func TestCalculateTradeStats_RoundTrips(t *testing.T) {
	trades := []core.Trade{
		tradeAt(core.TradeBuy, "2024-01-05", 100),
		tradeAt(core.TradeSell, "2024-02-01", 110), // win
		tradeAt(core.TradeBuy, "2024-03-04", 120),
		tradeAt(core.TradeSell, "2024-04-01", 115), // loss
		tradeAt(core.TradeBuy, "2024-05-06", 118),
		tradeAt(core.TradeSell, "2024-06-03", 130), // win
	}

	stats := CalculateTradeStats(trades)

	if stats.RoundTrips != 3 {
		t.Fatalf("RoundTrips = %d, want 3", stats.RoundTrips)
	}
	if stats.WinningTrades != 2 || stats.LosingTrades != 1 {
		t.Errorf("wins/losses = %d/%d, want 2/1", stats.WinningTrades, stats.LosingTrades)
	}
	if stats.WinRate < 66.6 || stats.WinRate > 66.7 {
		t.Errorf("WinRate = %v, want about 66.67", stats.WinRate)
	}
	if stats.OpenPosition {
		t.Error("no trailing BUY, OpenPosition should be false")
	}
}

func TestCalculateTradeStats_SellAtEntryPriceIsLoss(t *testing.T) {
	trades := []core.Trade{
		tradeAt(core.TradeBuy, "2024-01-05", 100),
		tradeAt(core.TradeSell, "2024-02-01", 100),
	}

	stats := CalculateTradeStats(trades)

	if stats.LosingTrades != 1 || stats.WinningTrades != 0 {
		t.Errorf("flat exit must score as a loss: %+v", stats)
	}
}

func TestCalculateTradeStats_OpenPosition(t *testing.T) {
	trades := []core.Trade{
		tradeAt(core.TradeBuy, "2024-01-05", 100),
		tradeAt(core.TradeSell, "2024-02-01", 110),
		tradeAt(core.TradeBuy, "2024-03-04", 105),
	}

	stats := CalculateTradeStats(trades)

	if !stats.OpenPosition {
		t.Error("trailing BUY should leave an open position")
	}
	if stats.RoundTrips != 1 {
		t.Errorf("RoundTrips = %d, want 1", stats.RoundTrips)
	}
}

func TestCalculateTradeStats_MissingPriceUnscored(t *testing.T) {
	d, _ := time.Parse(core.DateLayout, "2024-01-05")
	trades := []core.Trade{
		{Date: d, Type: core.TradeBuy}, // no price
		tradeAt(core.TradeSell, "2024-02-01", 110),
	}

	stats := CalculateTradeStats(trades)

	if stats.RoundTrips != 0 {
		t.Errorf("unpriced pair must not be scored: %+v", stats)
	}
	if stats.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0", stats.WinRate)
	}
}

func TestCalculateTradeStats_Empty(t *testing.T) {
	stats := CalculateTradeStats(nil)
	if stats.RoundTrips != 0 || stats.WinRate != 0 || stats.OpenPosition {
		t.Errorf("empty trade list should yield zero stats: %+v", stats)
	}
}
