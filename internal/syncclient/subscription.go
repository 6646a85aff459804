package syncclient

import (
	"sync"

	"github.com/abarros/contact-sync/internal/domain"
)

// Subscription is a cancellable live query against one owner's contact
// collection. A fatal listener error kills the subscription; it does not
// auto-retry, the owner must open a new one. After Close, in-flight
// snapshots are discarded rather than delivered.
type Subscription struct {
	ownerID    string
	onSnapshot func(*Subscription, []domain.Contact)
	onError    func(*Subscription, error)

	mu     sync.Mutex
	handle Handle
	closed bool
	failed bool
}

// Open starts a subscription for the given owner. It fails with
// ErrNotAuthenticated when ownerID is empty. Callbacks receive the
// subscription itself so consumers can discard deliveries from instances
// they no longer own.
func Open(backend Backend, ownerID string, onSnapshot func(*Subscription, []domain.Contact), onError func(*Subscription, error)) (*Subscription, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}

	s := &Subscription{
		ownerID:    ownerID,
		onSnapshot: onSnapshot,
		onError:    onError,
	}

	handle, err := backend.SubscribeQuery(ownerID, s.deliver, s.fail)
	if err != nil {
		return nil, Classify(err)
	}

	s.mu.Lock()
	s.handle = handle
	if s.closed {
		// Closed while the open call was in flight
		handle.Close()
	}
	s.mu.Unlock()

	return s, nil
}

// OwnerID returns the owner filter the subscription was opened with.
func (s *Subscription) OwnerID() string {
	return s.ownerID
}

// Close releases the backend listener. Closing twice is a programming
// error and fails fast with ErrSubscriptionClosed.
func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSubscriptionClosed
	}
	s.closed = true
	handle := s.handle
	s.mu.Unlock()

	if handle != nil {
		handle.Close()
	}
	return nil
}

// Alive reports whether the subscription still delivers snapshots.
func (s *Subscription) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.failed
}

func (s *Subscription) deliver(docs []domain.Contact) {
	s.mu.Lock()
	if s.closed || s.failed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.onSnapshot(s, docs)
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	if s.closed || s.failed {
		s.mu.Unlock()
		return
	}
	s.failed = true
	handle := s.handle
	s.mu.Unlock()

	if handle != nil {
		handle.Close()
	}
	s.onError(s, &QueryFailedError{Err: err})
}
