// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quantlens/quantlens/internal/api/response"
	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/report"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

// Runner is the engine surface the backtest handler needs.
type Runner interface {
	Run(ctx context.Context, req engine.RunRequest) (result.RawBacktest, error)
	Get(ctx context.Context, id int64) (result.RawDetail, error)
	List(ctx context.Context) ([]result.RawBacktest, error)
	Delete(ctx context.Context, id int64) error
}

// Archiver stores report snapshots; nil disables archiving.
type Archiver interface {
	SaveReport(ctx context.Context, id int64, data []byte) error
	LoadReport(ctx context.Context, id int64) ([]byte, error)
	DeleteReport(ctx context.Context, id int64) error
}

// Metrics is the subset of the metrics registry the handler records to.
type Metrics interface {
	RecordRunSubmitted(status string)
	RecordDetailFetch(status string)
	RecordDataWarning(kind string)
	RecordReportArchived(status string)
}

// BacktestHandler serves the JSON API around the remote engine.
type BacktestHandler struct {
	engine   Runner
	archiver Archiver
	metrics  Metrics
	logger   *zap.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(engine Runner, archiver Archiver, metrics Metrics, logger *zap.Logger) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		engine:   engine,
		archiver: archiver,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run submits a backtest run to the engine, adapts the completed summary,
// and archives a report snapshot when a store is configured.
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req engine.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrRecordInvalid, err))
		return
	}

	raw, err := h.engine.Run(r.Context(), req)
	if err != nil {
		h.metrics.RecordRunSubmitted("error")
		response.Error(w, response.StatusFor(err), err)
		return
	}
	h.metrics.RecordRunSubmitted("ok")

	backtest, warnings, err := result.AdaptBacktest(raw)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	for _, warn := range warnings {
		h.metrics.RecordDataWarning(string(warn.Kind))
		h.logger.Warn("data-consistency warning", zap.String("warning", warn.String()))
	}

	h.archiveSnapshot(r.Context(), backtest.ID)

	response.JSON(w, http.StatusCreated, map[string]any{
		"backtest": raw,
		"warnings": warningStrings(warnings),
	})
}

// Report returns the fully derived report for a completed backtest.
func (h *BacktestHandler) Report(w http.ResponseWriter, r *http.Request, id int64) {
	rep, err := h.buildReport(r.Context(), id)
	if err != nil {
		h.metrics.RecordDetailFetch("error")
		response.Error(w, response.StatusFor(err), err)
		return
	}
	h.metrics.RecordDetailFetch("ok")
	response.JSON(w, http.StatusOK, rep)
}

// Chart returns only the joined chart timeline with its trade markers.
func (h *BacktestHandler) Chart(w http.ResponseWriter, r *http.Request, id int64) {
	rep, err := h.buildReport(r.Context(), id)
	if err != nil {
		h.metrics.RecordDetailFetch("error")
		response.Error(w, response.StatusFor(err), err)
		return
	}
	h.metrics.RecordDetailFetch("ok")
	response.JSON(w, http.StatusOK, rep.Chart)
}

// List returns all backtest summaries known to the engine.
func (h *BacktestHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.engine.List(r.Context())
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Delete removes a backtest on the engine and any archived snapshot.
func (h *BacktestHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.engine.Delete(r.Context(), id); err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	if h.archiver != nil {
		if err := h.archiver.DeleteReport(r.Context(), id); err != nil {
			h.logger.Warn("deleting archived report", zap.Int64("id", id), zap.Error(err))
		}
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "backtest deleted"})
}

// Archived serves a previously archived report snapshot.
func (h *BacktestHandler) Archived(w http.ResponseWriter, r *http.Request, id int64) {
	if h.archiver == nil {
		response.Error(w, http.StatusNotFound, core.ErrArchiveFailed)
		return
	}
	data, err := h.archiver.LoadReport(r.Context(), id)
	if err != nil {
		response.Error(w, http.StatusNotFound, core.WrapError(core.ErrArchiveFailed, err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *BacktestHandler) buildReport(ctx context.Context, id int64) (report.Report, error) {
	raw, err := h.engine.Get(ctx, id)
	if err != nil {
		return report.Report{}, err
	}
	detail, err := result.Adapt(raw)
	if err != nil {
		return report.Report{}, err
	}
	for _, warn := range detail.Warnings {
		h.metrics.RecordDataWarning(string(warn.Kind))
	}
	return report.Build(detail)
}

// archiveSnapshot fetches the run's detail and stores the derived report.
// Failures are logged, never surfaced: archiving is best-effort.
func (h *BacktestHandler) archiveSnapshot(ctx context.Context, id int64) {
	if h.archiver == nil || id == 0 {
		return
	}

	rep, err := h.buildReport(ctx, id)
	if err != nil {
		h.metrics.RecordReportArchived("error")
		h.logger.Warn("building report for archive", zap.Int64("id", id), zap.Error(err))
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		h.metrics.RecordReportArchived("error")
		return
	}
	if err := h.archiver.SaveReport(ctx, id, data); err != nil {
		h.metrics.RecordReportArchived("error")
		h.logger.Warn("archiving report", zap.Int64("id", id), zap.Error(err))
		return
	}
	h.metrics.RecordReportArchived("ok")
}

func warningStrings(warnings []core.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
