package view

import (
	"context"
	"sync"

	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

// Fetcher retrieves the raw detail of a backtest by identifier.
// *engine.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, id int64) (result.RawDetail, error)
}

// Viewer drives the display state for one viewing surface. Show issues the
// detail fetch in the background; switching to another identifier cancels
// the outstanding fetch and its eventual result is discarded by Update.
type Viewer struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc

	// onStale is invoked when a response arrives for a no-longer-active
	// identifier; used by the metrics hookup.
	onStale func(id int64)
}

// NewViewer creates a viewer over the given fetcher.
func NewViewer(fetcher Fetcher, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{fetcher: fetcher, logger: logger}
}

// OnStale registers a callback for discarded stale responses.
func (v *Viewer) OnStale(fn func(id int64)) {
	v.mu.Lock()
	v.onStale = fn
	v.mu.Unlock()
}

// State returns a snapshot of the current display state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Show navigates to the given backtest and starts its detail fetch. The
// returned channel closes when the fetch settles (or is discarded), which
// tests and the CLI use to wait deterministically.
func (v *Viewer) Show(ctx context.Context, id int64) <-chan struct{} {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state = Update(v.state, Navigated{ID: id})
	v.state = Update(v.state, FetchStarted{ID: id})
	v.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		raw, err := v.fetcher.Get(fetchCtx, id)
		if err != nil {
			v.apply(FetchFailed{ID: id, Err: err}, id)
			return
		}
		detail, err := result.Adapt(raw)
		if err != nil {
			v.apply(FetchFailed{ID: id, Err: err}, id)
			return
		}
		if !detail.Backtest.IsCompleted() {
			v.apply(FetchFailed{ID: id, Err: core.ErrNotCompleted}, id)
			return
		}
		v.apply(FetchSucceeded{ID: id, Detail: detail}, id)
	}()
	return done
}

func (v *Viewer) apply(msg Msg, id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if id != v.state.ActiveID {
		v.logger.Debug("discarding stale fetch result", zap.Int64("id", id),
			zap.Int64("active", v.state.ActiveID))
		if v.onStale != nil {
			v.onStale(id)
		}
		return
	}
	v.state = Update(v.state, msg)
}
