package syncclient

import "sync"

// State is the coarse authentication state visible to the UI. Initializing
// lasts until the backend reports the session for the first time; dependent
// UI shows an indeterminate progress indicator during it rather than either
// authenticated or unauthenticated content.
type State int

const (
	StateInitializing State = iota
	StateSignedOut
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateSignedOut:
		return "signed_out"
	case StateSignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

// SessionState couples the coarse state with the identity. Session is
// non-nil exactly when State is StateSignedIn.
type SessionState struct {
	State   State
	Session *Session
}

// Edge is a detected transition between session-present and session-absent.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLogin
	EdgeLogout
)

// DetectEdge compares two consecutive session states. Only absent-to-present
// (including the initial report) and present-to-absent transitions are
// edges; a repeated present report, same identity or not, is a value
// refresh.
func DetectEdge(prev, next SessionState) Edge {
	switch {
	case prev.State != StateSignedIn && next.State == StateSignedIn:
		return EdgeLogin
	case prev.State == StateSignedIn && next.State == StateSignedOut:
		return EdgeLogout
	default:
		return EdgeNone
	}
}

// Monitor observes backend session changes and turns them into edges. It
// registers exactly one callback with the backend on Start.
type Monitor struct {
	backend     Backend
	mu          sync.Mutex
	current     SessionState
	listeners   []func(Edge, SessionState)
	unsubscribe func()
}

func NewMonitor(backend Backend) *Monitor {
	return &Monitor{
		backend: backend,
		current: SessionState{State: StateInitializing},
	}
}

// OnChange registers a listener invoked on every session report, edge or
// not. Register listeners before Start.
func (m *Monitor) OnChange(fn func(Edge, SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Monitor) Start() {
	m.mu.Lock()
	if m.unsubscribe != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	unsubscribe := m.backend.OnSessionChange(m.apply)

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Current returns the last reported session state.
func (m *Monitor) Current() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Monitor) apply(session *Session) {
	next := SessionState{State: StateSignedOut}
	if session != nil {
		next = SessionState{State: StateSignedIn, Session: session}
	}

	m.mu.Lock()
	prev := m.current
	m.current = next
	listeners := make([]func(Edge, SessionState), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	edge := DetectEdge(prev, next)
	for _, fn := range listeners {
		fn(edge, next)
	}
}
