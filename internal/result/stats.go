package result

import "github.com/quantlens/quantlens/internal/core"

// TradeStats holds per-trade statistics derived from the executed trade
// list. Unlike portfolio-level profit, the win rate here is computed from
// BUY/SELL round trips, so a profitable run with losing trades in it still
// reports an honest figure.
type TradeStats struct {
	RoundTrips    int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percentage of profitable round trips
	OpenPosition  bool    // a trailing BUY without a matching SELL
}

// CalculateTradeStats pairs each BUY with the following SELL and compares
// execution prices. Pairs with a missing price on either side are skipped;
// they cannot be scored. A SELL at exactly the entry price counts as a loss.
func CalculateTradeStats(trades []core.Trade) TradeStats {
	var stats TradeStats

	var entry *core.Trade
	for i := range trades {
		t := trades[i]
		switch t.Type {
		case core.TradeBuy:
			entry = &trades[i]
		case core.TradeSell:
			if entry == nil {
				continue
			}
			if entry.Price != nil && t.Price != nil {
				stats.RoundTrips++
				if *t.Price > *entry.Price {
					stats.WinningTrades++
				} else {
					stats.LosingTrades++
				}
			}
			entry = nil
		}
	}
	stats.OpenPosition = entry != nil

	if stats.RoundTrips > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.RoundTrips) * 100
	}

	return stats
}
