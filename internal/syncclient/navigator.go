package syncclient

import (
	"sync"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
)

// Route is the visible entry point of the display layer.
type Route string

const (
	RouteLoading  Route = "loading"
	RouteSignIn   Route = "sign_in"
	RouteContacts Route = "contacts"
)

// DefaultLogoutDelay lets in-flight UI transitions settle before the
// unauthenticated entry point is shown. Subscription teardown is never
// delayed.
const DefaultLogoutDelay = 100 * time.Millisecond

// Navigator reacts to login/logout edges. On login it opens a subscription
// keyed to the new session before showing the authenticated route; on
// logout it tears the subscription down and clears the view in the same
// critical section, so no stale subscription can deliver another user's
// data into a freshly shown view.
type Navigator struct {
	backend     Backend
	monitor     *Monitor
	logoutDelay time.Duration

	mu        sync.Mutex
	route     Route
	sub       *Subscription
	view      []domain.Contact
	subErr    error
	navTimer  *time.Timer
	observers []func()
}

func NewNavigator(backend Backend, monitor *Monitor, logoutDelay time.Duration) *Navigator {
	return &Navigator{
		backend:     backend,
		monitor:     monitor,
		logoutDelay: logoutDelay,
		route:       RouteLoading,
	}
}

// Start hooks the navigator into the session monitor. Call before
// Monitor.Start so the initial session report is not missed.
func (n *Navigator) Start() {
	n.monitor.OnChange(n.handleSession)
}

// Stop releases the live subscription and any pending navigation.
func (n *Navigator) Stop() {
	n.mu.Lock()
	n.cancelNavTimerLocked()
	n.teardownLocked()
	n.view = nil
	n.mu.Unlock()
}

// OnChange registers an observer invoked after every route or view change.
// Observers must not call back into the navigator synchronously.
func (n *Navigator) OnChange(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

// Route returns the current entry point.
func (n *Navigator) Route() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

// View returns the current ordered contact view. The returned slice is a
// copy; per-snapshot views are replaced wholesale, never patched.
func (n *Navigator) View() []domain.Contact {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Contact, len(n.view))
	copy(out, n.view)
	return out
}

// SubscriptionError returns the classified error that killed the current
// subscription, or nil while it is healthy.
func (n *Navigator) SubscriptionError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.subErr
}

// Refresh reopens the live subscription after a QueryFailed condition.
func (n *Navigator) Refresh() error {
	state := n.monitor.Current()

	n.mu.Lock()
	if state.State != StateSignedIn {
		n.mu.Unlock()
		return ErrNotAuthenticated
	}
	n.teardownLocked()
	n.openLocked(state.Session.UserID)
	err := n.subErr
	n.mu.Unlock()

	n.notify()
	return err
}

func (n *Navigator) handleSession(edge Edge, state SessionState) {
	n.mu.Lock()

	switch edge {
	case EdgeLogin:
		n.cancelNavTimerLocked()
		// Defensive teardown: a subscription from the previous session must
		// never feed the new session's view.
		n.teardownLocked()
		n.view = nil
		n.openLocked(state.Session.UserID)
		n.route = RouteContacts

	case EdgeLogout:
		n.teardownLocked()
		n.view = nil
		if n.logoutDelay > 0 {
			n.scheduleSignInLocked()
		} else {
			n.route = RouteSignIn
		}

	default:
		// Value refresh only. The first report still has to move the UI off
		// the indeterminate loading state.
		if state.State == StateSignedOut && n.route == RouteLoading {
			n.route = RouteSignIn
		}
	}

	n.mu.Unlock()
	n.notify()
}

// applySnapshot is the onSnapshot callback for the owned subscription.
// Deliveries from any subscription the navigator no longer owns are
// discarded.
func (n *Navigator) applySnapshot(sub *Subscription, docs []domain.Contact) {
	n.mu.Lock()
	if n.sub != sub {
		n.mu.Unlock()
		return
	}
	n.view = Reconcile(docs)
	n.mu.Unlock()

	n.notify()
}

func (n *Navigator) applyError(sub *Subscription, err error) {
	n.mu.Lock()
	if n.sub != sub {
		n.mu.Unlock()
		return
	}
	// The subscription is dead; only Refresh or the next login edge brings
	// a new one.
	n.sub = nil
	n.subErr = err
	n.mu.Unlock()

	n.notify()
}

func (n *Navigator) openLocked(ownerID string) {
	sub, err := Open(n.backend, ownerID, n.applySnapshot, n.applyError)
	if err != nil {
		n.subErr = err
		return
	}
	n.sub = sub
	n.subErr = nil
}

func (n *Navigator) teardownLocked() {
	if n.sub != nil {
		n.sub.Close()
		n.sub = nil
	}
	n.subErr = nil
}

func (n *Navigator) scheduleSignInLocked() {
	n.cancelNavTimerLocked()
	n.navTimer = time.AfterFunc(n.logoutDelay, func() {
		// A login may have won the race against the timer firing
		if n.monitor.Current().State == StateSignedIn {
			return
		}
		n.mu.Lock()
		n.navTimer = nil
		n.route = RouteSignIn
		n.mu.Unlock()
		n.notify()
	})
}

func (n *Navigator) cancelNavTimerLocked() {
	if n.navTimer != nil {
		n.navTimer.Stop()
		n.navTimer = nil
	}
}

func (n *Navigator) notify() {
	n.mu.Lock()
	observers := make([]func(), len(n.observers))
	copy(observers, n.observers)
	n.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
