package main

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/logger"
	"github.com/quantlens/quantlens/internal/report"
	"github.com/quantlens/quantlens/internal/result"
	"github.com/spf13/cobra"
)

var (
	runTicker  string
	runFrom    string
	runTo      string
	runCapital float64
	runShort   int
	runLong    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit a backtest run and print its report",
	Long:  "Submit a moving-average crossover run to the engine, wait for the result and print the derived report",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTicker, "ticker", "", "Ticker to backtest (required)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "Start date YYYY-MM-DD (required)")
	runCmd.Flags().StringVar(&runTo, "to", "", "End date YYYY-MM-DD (required)")
	runCmd.Flags().Float64Var(&runCapital, "capital", 10000, "Initial capital")
	runCmd.Flags().IntVar(&runShort, "short-window", 20, "Short moving-average window")
	runCmd.Flags().IntVar(&runLong, "long-window", 50, "Long moving-average window")

	runCmd.MarkFlagRequired("ticker")
	runCmd.MarkFlagRequired("from")
	runCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	fromDate, err := time.Parse(core.DateLayout, runFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate, err := time.Parse(core.DateLayout, runTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if toDate.Before(fromDate) {
		return fmt.Errorf("end date must be after start date")
	}

	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	client := engine.New(cfg.Engine.BaseURL, cfg.Engine.Timeout, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Engine.Timeout)
	defer cancel()

	raw, err := client.Run(ctx, engine.RunRequest{
		Ticker:         runTicker,
		StartDate:      runFrom,
		EndDate:        runTo,
		InitialCapital: runCapital,
		ShortWindow:    runShort,
		LongWindow:     runLong,
	})
	if err != nil {
		return fmt.Errorf("submitting run: %w", err)
	}
	if raw.ID == nil {
		return fmt.Errorf("engine returned no backtest identifier")
	}

	fmt.Printf("Backtest #%d submitted\n\n", *raw.ID)
	return printReportByID(ctx, client, *raw.ID)
}

// printReportByID fetches the detail, derives the report and prints it.
func printReportByID(ctx context.Context, client *engine.Client, id int64) error {
	rawDetail, err := client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching result: %w", err)
	}
	detail, err := result.Adapt(rawDetail)
	if err != nil {
		return fmt.Errorf("adapting result: %w", err)
	}
	rep, err := report.Build(detail)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	printReport(rep)
	return nil
}
