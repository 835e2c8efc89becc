package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/insight"
	"github.com/quantlens/quantlens/internal/llm/factory"
	"github.com/quantlens/quantlens/internal/logger"
	"github.com/quantlens/quantlens/internal/result"
	"github.com/spf13/cobra"
)

var showExplain bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Fetch a backtest result and print its report",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showExplain, "explain", false, "Append an LLM narrative summary")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid backtest id %q", args[0])
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

	if err := printReportByID(ctx, client, id); err != nil {
		return err
	}

	if !showExplain {
		return nil
	}
	if !cfg.Insight.Enabled {
		return fmt.Errorf("insight is disabled in the configuration")
	}

	provider, err := factory.New(cfg.Insight)
	if err != nil {
		return fmt.Errorf("creating insight provider: %w", err)
	}
	summarizer := insight.New(provider, log)

	rawDetail, err := client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching result: %w", err)
	}
	detail, err := result.Adapt(rawDetail)
	if err != nil {
		return fmt.Errorf("adapting result: %w", err)
	}
	summary, err := summarizer.Summarize(ctx, detail)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Println(summary)
	return nil
}
