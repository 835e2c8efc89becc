// Package view holds the client-side display state for the currently
// viewed backtest. All mutation flows through a single pure Update
// function over an immutable-per-update state record, so transitions are
// deterministic and testable.
package view

import "github.com/quantlens/quantlens/internal/core"

// Phase is the loading phase of the active view.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// State is the full display state. Detail is written exactly once per
// successful fetch and read-only afterwards.
type State struct {
	ActiveID int64
	Phase    Phase
	Detail   *core.BacktestDetail
	Err      error
}

// Msg is a state-transition input.
type Msg interface{ msgID() int64 }

// Navigated switches the active backtest identifier. Any fetch still in
// flight for the previous identifier becomes stale from this point on.
type Navigated struct{ ID int64 }

// FetchStarted marks a detail fetch as in flight for the identifier.
type FetchStarted struct{ ID int64 }

// FetchSucceeded delivers an adapted detail for the identifier.
type FetchSucceeded struct {
	ID     int64
	Detail core.BacktestDetail
}

// FetchFailed delivers a fetch error for the identifier.
type FetchFailed struct {
	ID  int64
	Err error
}

func (m Navigated) msgID() int64      { return m.ID }
func (m FetchStarted) msgID() int64   { return m.ID }
func (m FetchSucceeded) msgID() int64 { return m.ID }
func (m FetchFailed) msgID() int64    { return m.ID }

// Update applies one message and returns the next state. Responses keyed to
// an identifier other than the active one are discarded outright: a stale
// fetch can never overwrite the displayed backtest. A failed fetch keeps
// any previously displayed detail visible alongside the error.
func Update(s State, msg Msg) State {
	switch m := msg.(type) {
	case Navigated:
		if m.ID == s.ActiveID && s.Phase != PhaseIdle {
			return s
		}
		return State{ActiveID: m.ID, Phase: PhaseIdle}

	case FetchStarted:
		if m.ID != s.ActiveID {
			return s
		}
		next := s
		next.Phase = PhaseLoading
		next.Err = nil
		return next

	case FetchSucceeded:
		if m.ID != s.ActiveID {
			return s
		}
		detail := m.Detail
		return State{
			ActiveID: s.ActiveID,
			Phase:    PhaseReady,
			Detail:   &detail,
		}

	case FetchFailed:
		if m.ID != s.ActiveID {
			return s
		}
		next := s
		next.Phase = PhaseFailed
		next.Err = m.Err
		return next
	}
	return s
}
