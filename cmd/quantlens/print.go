package main

import (
	"fmt"

	"github.com/quantlens/quantlens/internal/report"
)

// printReport renders a report on the terminal, section by section.
func printReport(rep report.Report) {
	fmt.Printf("=== Backtest #%d ===\n", rep.ID)
	for _, card := range rep.Cards {
		line := fmt.Sprintf("%-14s %s", card.Label+":", card.Value)
		if card.Sub != "" {
			line += " (" + card.Sub + ")"
		}
		fmt.Println(line)
	}
	fmt.Println()

	fmt.Println("Ticker:      ", rep.Details.Ticker)
	fmt.Println("Strategy:    ", rep.Details.Strategy)
	fmt.Println("Period:      ", rep.Details.Period)
	fmt.Println("Total trades:", rep.Details.TotalTrades)
	fmt.Println("Win rate:    ", rep.Details.WinRate)
	fmt.Println("Status:      ", rep.Details.Status)
	fmt.Println()

	switch {
	case rep.TimelineErr != "":
		fmt.Println("Trades:", rep.TimelineErr)
	case rep.Timeline.Empty:
		fmt.Println(rep.Timeline.Message)
	default:
		fmt.Println("Trades:")
		for _, e := range rep.Timeline.Events {
			line := fmt.Sprintf("  %s %-4s", e.Date, e.Type)
			if e.HasPrice {
				line += " at " + e.Price
			}
			if e.HasShares {
				line += ", " + e.Shares + " shares"
			}
			if e.HasCapital {
				line += ", capital " + e.Capital
			}
			fmt.Println(line)
		}
	}

	if len(rep.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range rep.Warnings {
			fmt.Println("  -", w)
		}
	}
}
