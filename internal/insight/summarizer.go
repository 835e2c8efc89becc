// Package insight produces an optional plain-language narrative for a
// completed backtest using a configured LLM provider.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/format"
	"github.com/quantlens/quantlens/internal/llm"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

const systemPrompt = `You are a quantitative trading assistant. Summarize backtest
results for a retail user in at most three short paragraphs. Be factual, note
risk figures, and do not give financial advice.`

// Summarizer turns a backtest detail into a narrative summary.
type Summarizer struct {
	provider llm.Provider
	logger   *zap.Logger
}

// New creates a summarizer over the given provider.
func New(provider llm.Provider, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{provider: provider, logger: logger}
}

// Summarize generates the narrative for a completed backtest.
func (s *Summarizer) Summarize(ctx context.Context, detail core.BacktestDetail) (string, error) {
	if !detail.Backtest.IsCompleted() {
		return "", core.ErrNotCompleted
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		Prompt:       buildPrompt(detail),
		MaxTokens:    512,
		Temperature:  0.3,
	})
	if err != nil {
		return "", core.WrapError(core.ErrInsightFailed, err)
	}

	s.logger.Info("insight generated",
		zap.String("provider", s.provider.Name()),
		zap.Int64("backtest_id", detail.Backtest.ID),
		zap.Int("output_tokens", resp.OutputTokens),
	)

	return strings.TrimSpace(resp.Content), nil
}

func buildPrompt(detail core.BacktestDetail) string {
	b := detail.Backtest
	stats := result.CalculateTradeStats(detail.Trades)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Strategy %s on %s, %s to %s.\n",
		strings.ReplaceAll(b.StrategyName, "_", " "), b.Ticker,
		b.StartDate.Format(core.DateLayout), b.EndDate.Format(core.DateLayout))
	fmt.Fprintf(&sb, "Initial capital %s, final value %s, profit %s (%s).\n",
		format.Currency(b.InitialCapital), format.Currency(b.FinalValue),
		format.Currency(b.Profit()), format.SignedPercent(b.TotalReturn))
	fmt.Fprintf(&sb, "Sharpe ratio %s, max drawdown %s.\n",
		format.Number(b.SharpeRatio), format.SignedPercent(b.MaxDrawdown))
	fmt.Fprintf(&sb, "%d trades executed", b.NumTrades)
	if stats.RoundTrips > 0 {
		fmt.Fprintf(&sb, ", %d round trips, win rate %.0f%%", stats.RoundTrips, stats.WinRate)
	}
	sb.WriteString(".\n")
	if len(detail.Warnings) > 0 {
		fmt.Fprintf(&sb, "Data warnings: %d.\n", len(detail.Warnings))
	}
	sb.WriteString("Summarize this backtest result.")
	return sb.String()
}
