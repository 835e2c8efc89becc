package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quantlens/quantlens/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	gates map[int64]chan struct{} // when set, Get blocks until the gate closes
	errs  map[int64]error
	state map[int64]string // status per id, "completed" by default
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		gates: make(map[int64]chan struct{}),
		errs:  make(map[int64]error),
		state: make(map[int64]string),
	}
}

func (f *fakeFetcher) Get(ctx context.Context, id int64) (result.RawDetail, error) {
	f.mu.Lock()
	gate := f.gates[id]
	err := f.errs[id]
	status, ok := f.state[id]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	if err != nil {
		return result.RawDetail{}, err
	}
	if !ok {
		status = "completed"
	}
	return rawDetailFor(id, status), nil
}

func rawDetailFor(id int64, status string) result.RawDetail {
	ticker := "AAPL"
	start, end := "2024-01-02", "2024-06-28"
	capital, final, ret, drawdown := 10000.0, 11500.0, 15.0, -8.3
	trades := 6
	return result.RawDetail{
		Backtest: result.RawBacktest{
			ID:             &id,
			Ticker:         &ticker,
			StartDate:      &start,
			EndDate:        &end,
			InitialCapital: &capital,
			FinalValue:     &final,
			TotalReturn:    &ret,
			MaxDrawdown:    &drawdown,
			NumTrades:      &trades,
			Status:         &status,
		},
	}
}

func TestViewer_ShowSuccess(t *testing.T) {
	v := NewViewer(newFakeFetcher(), nil)

	<-v.Show(context.Background(), 7)

	st := v.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.NotNil(t, st.Detail)
	assert.Equal(t, int64(7), st.ActiveID)
	assert.Equal(t, int64(7), st.Detail.Backtest.ID)
}

func TestViewer_RapidNavigationDiscardsStaleResponse(t *testing.T) {
	fetcher := newFakeFetcher()
	gate := make(chan struct{})
	fetcher.gates[1] = gate

	v := NewViewer(fetcher, nil)

	var staleMu sync.Mutex
	var stale []int64
	v.OnStale(func(id int64) {
		staleMu.Lock()
		stale = append(stale, id)
		staleMu.Unlock()
	})

	// The first fetch hangs; the user navigates on.
	firstDone := v.Show(context.Background(), 1)
	<-v.Show(context.Background(), 2)

	// Now the slow response for the first backtest arrives.
	close(gate)
	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never settled")
	}

	st := v.State()
	require.Equal(t, int64(2), st.ActiveID)
	require.Equal(t, PhaseReady, st.Phase)
	assert.Equal(t, int64(2), st.Detail.Backtest.ID, "stale detail must never win")

	staleMu.Lock()
	defer staleMu.Unlock()
	assert.Equal(t, []int64{1}, stale)
}

func TestViewer_FetchErrorFailsView(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs[3] = errors.New("connection refused")

	v := NewViewer(fetcher, nil)
	<-v.Show(context.Background(), 3)

	st := v.State()
	require.Equal(t, PhaseFailed, st.Phase)
	assert.Error(t, st.Err)
	assert.Nil(t, st.Detail)
}

func TestViewer_NonCompletedRunIsRefused(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.state[4] = "running"

	v := NewViewer(fetcher, nil)
	<-v.Show(context.Background(), 4)

	st := v.State()
	require.Equal(t, PhaseFailed, st.Phase)
	assert.Error(t, st.Err)
}
