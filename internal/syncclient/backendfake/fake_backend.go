// Package backendfake provides an in-memory Backend for tests. Session
// changes and snapshot pushes are driven explicitly by the test, so runs
// are deterministic; mutations push a fresh snapshot to the owner's
// subscribers the way the real service does.
package backendfake

import (
	"context"
	"sync"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/google/uuid"
)

type Backend struct {
	mu         sync.Mutex
	session    *syncclient.Session
	sessionFns []func(*syncclient.Session)
	contacts   map[string]domain.Contact
	subs       map[int]*subscription
	nextSubID  int

	createErr    error
	updateErr    error
	deleteErr    error
	subscribeErr error
}

type subscription struct {
	ownerID    string
	onSnapshot func([]domain.Contact)
	onError    func(error)
	closed     bool
}

type handle struct {
	backend *Backend
	id      int
}

func (h *handle) Close() {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	if sub, ok := h.backend.subs[h.id]; ok {
		sub.closed = true
	}
}

func New() *Backend {
	return &Backend{
		contacts: make(map[string]domain.Contact),
		subs:     make(map[int]*subscription),
	}
}

// Session control

// SignIn reports a present session to every registered listener.
func (b *Backend) SignIn(userID, email string) {
	b.mu.Lock()
	b.session = &syncclient.Session{UserID: userID, Email: email}
	session := b.session
	fns := b.copySessionFnsLocked()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// SignOut reports an absent session.
func (b *Backend) SignOut() {
	b.mu.Lock()
	b.session = nil
	fns := b.copySessionFnsLocked()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}
}

func (b *Backend) OnSessionChange(fn func(*syncclient.Session)) func() {
	b.mu.Lock()
	b.sessionFns = append(b.sessionFns, fn)
	idx := len(b.sessionFns) - 1
	session := b.session
	b.mu.Unlock()

	// Contract: the callback fires at least once on registration
	fn(session)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if idx < len(b.sessionFns) {
			b.sessionFns[idx] = func(*syncclient.Session) {}
		}
	}
}

// Subscriptions

func (b *Backend) SubscribeQuery(ownerID string, onSnapshot func([]domain.Contact), onError func(error)) (syncclient.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribeErr != nil {
		err := b.subscribeErr
		b.subscribeErr = nil
		return nil, err
	}

	b.nextSubID++
	id := b.nextSubID
	b.subs[id] = &subscription{
		ownerID:    ownerID,
		onSnapshot: onSnapshot,
		onError:    onError,
	}

	return &handle{backend: b, id: id}, nil
}

// PushSnapshot delivers the owner's current contact set to every live
// subscriber.
func (b *Backend) PushSnapshot(ownerID string) {
	b.mu.Lock()
	docs := b.ownerContactsLocked(ownerID)
	targets := b.ownerSubsLocked(ownerID)
	b.mu.Unlock()

	for _, sub := range targets {
		sub.onSnapshot(docs)
	}
}

// FailSubscriptions delivers a fatal listener error to the owner's
// subscribers and stops further delivery to them.
func (b *Backend) FailSubscriptions(ownerID string, err error) {
	b.mu.Lock()
	targets := b.ownerSubsLocked(ownerID)
	for _, sub := range targets {
		sub.closed = true
	}
	b.mu.Unlock()

	for _, sub := range targets {
		sub.onError(err)
	}
}

// OpenSubscriptions counts live subscriptions for the owner.
func (b *Backend) OpenSubscriptions(ownerID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ownerSubsLocked(ownerID))
}

// Mutations

func (b *Backend) CreateContact(ctx context.Context, ownerID string, fields domain.ContactFields) (string, error) {
	b.mu.Lock()
	if b.createErr != nil {
		err := b.createErr
		b.createErr = nil
		b.mu.Unlock()
		return "", err
	}

	owner, err := uuid.Parse(ownerID)
	if err != nil {
		b.mu.Unlock()
		return "", &syncclient.BackendError{Code: syncclient.CodeUnauthenticated, Message: "bad owner id"}
	}

	contact := domain.Contact{
		ID:        uuid.New(),
		OwnerID:   owner,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	fields.Apply(&contact)
	b.contacts[contact.ID.String()] = contact
	b.mu.Unlock()

	b.PushSnapshot(ownerID)
	return contact.ID.String(), nil
}

func (b *Backend) UpdateContact(ctx context.Context, contactID string, fields domain.ContactFields) error {
	b.mu.Lock()
	if b.updateErr != nil {
		err := b.updateErr
		b.updateErr = nil
		b.mu.Unlock()
		return err
	}

	contact, ok := b.contacts[contactID]
	if !ok {
		b.mu.Unlock()
		return &syncclient.BackendError{Code: syncclient.CodeNotFound, Message: "no such contact"}
	}
	if b.session == nil || b.session.UserID != contact.OwnerID.String() {
		b.mu.Unlock()
		return &syncclient.BackendError{Code: syncclient.CodePermissionDenied, Message: "contact belongs to another user"}
	}

	fields.Apply(&contact)
	contact.UpdatedAt = time.Now()
	b.contacts[contactID] = contact
	ownerID := contact.OwnerID.String()
	b.mu.Unlock()

	b.PushSnapshot(ownerID)
	return nil
}

func (b *Backend) DeleteContact(ctx context.Context, contactID string) error {
	b.mu.Lock()
	if b.deleteErr != nil {
		err := b.deleteErr
		b.deleteErr = nil
		b.mu.Unlock()
		return err
	}

	contact, ok := b.contacts[contactID]
	if !ok {
		b.mu.Unlock()
		return &syncclient.BackendError{Code: syncclient.CodeNotFound, Message: "no such contact"}
	}
	if b.session == nil || b.session.UserID != contact.OwnerID.String() {
		b.mu.Unlock()
		return &syncclient.BackendError{Code: syncclient.CodePermissionDenied, Message: "contact belongs to another user"}
	}

	delete(b.contacts, contactID)
	ownerID := contact.OwnerID.String()
	b.mu.Unlock()

	b.PushSnapshot(ownerID)
	return nil
}

// Test helpers

// SeedContact inserts a contact directly, bypassing session checks.
func (b *Backend) SeedContact(ownerID uuid.UUID, fields domain.ContactFields, createdAt time.Time) domain.Contact {
	contact := domain.Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	fields.Apply(&contact)

	b.mu.Lock()
	b.contacts[contact.ID.String()] = contact
	b.mu.Unlock()
	return contact
}

// Contact returns a stored contact by id.
func (b *Backend) Contact(id string) (domain.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	contact, ok := b.contacts[id]
	return contact, ok
}

// Failure injection for the next matching call.

func (b *Backend) SetCreateError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createErr = err
}

func (b *Backend) SetUpdateError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateErr = err
}

func (b *Backend) SetDeleteError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteErr = err
}

func (b *Backend) SetSubscribeError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribeErr = err
}

func (b *Backend) copySessionFnsLocked() []func(*syncclient.Session) {
	fns := make([]func(*syncclient.Session), len(b.sessionFns))
	copy(fns, b.sessionFns)
	return fns
}

func (b *Backend) ownerContactsLocked(ownerID string) []domain.Contact {
	var docs []domain.Contact
	for _, c := range b.contacts {
		if c.OwnerID.String() == ownerID {
			docs = append(docs, c)
		}
	}
	return docs
}

func (b *Backend) ownerSubsLocked(ownerID string) []*subscription {
	var targets []*subscription
	for _, sub := range b.subs {
		if !sub.closed && sub.ownerID == ownerID {
			targets = append(targets, sub)
		}
	}
	return targets
}
