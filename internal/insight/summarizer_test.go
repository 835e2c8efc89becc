package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/llm"
)

type fakeProvider struct {
	lastReq llm.Request
	reply   string
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.reply, OutputTokens: 42}, nil
}

func testDetail() core.BacktestDetail {
	start, _ := time.Parse(core.DateLayout, "2024-01-02")
	end, _ := time.Parse(core.DateLayout, "2024-06-28")
	sharpe := 1.2
	return core.BacktestDetail{
		Backtest: core.Backtest{
			ID:             12,
			Ticker:         "AAPL",
			StrategyName:   "ma_crossover",
			StartDate:      start,
			EndDate:        end,
			InitialCapital: 10000,
			FinalValue:     11500,
			TotalReturn:    15,
			SharpeRatio:    &sharpe,
			MaxDrawdown:    -8.3,
			NumTrades:      2,
			Status:         core.StatusCompleted,
		},
	}
}

func TestSummarize(t *testing.T) {
	provider := &fakeProvider{reply: "  The strategy returned 15% over six months.  "}
	s := New(provider, nil)

	summary, err := s.Summarize(context.Background(), testDetail())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "The strategy returned 15% over six months." {
		t.Errorf("summary not trimmed: %q", summary)
	}

	prompt := provider.lastReq.Prompt
	for _, want := range []string{"ma crossover", "AAPL", "$1,500.00", "+15.00%", "-8.30%"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if provider.lastReq.SystemPrompt == "" {
		t.Error("system prompt must be set")
	}
}

func TestSummarize_RefusesNonCompleted(t *testing.T) {
	detail := testDetail()
	detail.Backtest.Status = core.StatusRunning

	s := New(&fakeProvider{}, nil)
	_, err := s.Summarize(context.Background(), detail)
	if !errors.Is(err, core.ErrNotCompleted) {
		t.Fatalf("expected not-completed refusal, got %v", err)
	}
}

func TestSummarize_ProviderErrorWrapped(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	s := New(provider, nil)

	_, err := s.Summarize(context.Background(), testDetail())
	if err == nil {
		t.Fatal("expected an error")
	}
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Code != core.ErrInsightFailed.Code {
		t.Errorf("expected insight-failed wrap, got %v", err)
	}
}
