package syncclient

import (
	"context"

	"github.com/abarros/contact-sync/internal/domain"
)

// Session identifies the authenticated principal as reported by the backend.
type Session struct {
	UserID string
	Email  string
}

// Handle is a live connection to a backend query. It is owned by whichever
// component opened it and must be released, or it keeps delivering snapshots
// for a stale session.
type Handle interface {
	Close()
}

// Backend is the remote auth/database service, reduced to the surface the
// sync core consumes. Implementations deliver session changes and query
// snapshots from their own goroutines; callbacks must be treated as
// concurrent with everything else.
type Backend interface {
	// OnSessionChange registers a callback invoked with the current session
	// (nil when absent) at least once on registration and on every
	// subsequent change. The returned function unregisters it.
	OnSessionChange(fn func(*Session)) (unsubscribe func())

	// SubscribeQuery opens a standing owner-filtered query against the
	// contact collection. Each server push delivers a complete snapshot, not
	// a diff, with no ordering guarantee. A listener error is fatal to the
	// subscription.
	SubscribeQuery(ownerID string, onSnapshot func([]domain.Contact), onError func(error)) (Handle, error)

	// CreateContact writes one new document and returns its assigned id.
	// The server assigns the creation timestamp.
	CreateContact(ctx context.Context, ownerID string, fields domain.ContactFields) (string, error)

	UpdateContact(ctx context.Context, contactID string, fields domain.ContactFields) error

	DeleteContact(ctx context.Context, contactID string) error
}
