// internal/api/handler/api/insight.go
package api

import (
	"context"
	"net/http"

	"github.com/quantlens/quantlens/internal/api/response"
	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

// Summarizer produces a narrative for a completed backtest.
type Summarizer interface {
	Summarize(ctx context.Context, detail core.BacktestDetail) (string, error)
}

// InsightMetrics records insight outcomes.
type InsightMetrics interface {
	RecordInsight(status string)
}

// InsightHandler serves LLM narrative summaries. A nil summarizer means the
// feature is disabled by configuration.
type InsightHandler struct {
	engine     Runner
	summarizer Summarizer
	metrics    InsightMetrics
	logger     *zap.Logger
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(engine Runner, summarizer Summarizer, metrics InsightMetrics, logger *zap.Logger) *InsightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightHandler{
		engine:     engine,
		summarizer: summarizer,
		metrics:    metrics,
		logger:     logger,
	}
}

// Get generates the narrative summary for a backtest.
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	if h.summarizer == nil {
		response.Error(w, http.StatusServiceUnavailable,
			core.WrapError(core.ErrInsightFailed, core.ErrConfigMissing))
		return
	}

	raw, err := h.engine.Get(r.Context(), id)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	detail, err := result.Adapt(raw)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), detail)
	if err != nil {
		h.metrics.RecordInsight("error")
		response.Error(w, response.StatusFor(err), err)
		return
	}
	h.metrics.RecordInsight("ok")

	response.JSON(w, http.StatusOK, map[string]any{
		"backtest_id": id,
		"summary":     summary,
	})
}
