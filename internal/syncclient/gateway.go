package syncclient

import (
	"context"

	"github.com/abarros/contact-sync/internal/domain"
)

// Gateway is the validated write boundary. Each operation performs local
// field validation, issues a single backend write, and classifies any
// failure. It never touches the ordered view; the live subscription's next
// snapshot is the sole source of truth for display state.
type Gateway struct {
	backend Backend
	monitor *Monitor
}

func NewGateway(backend Backend, monitor *Monitor) *Gateway {
	return &Gateway{
		backend: backend,
		monitor: monitor,
	}
}

// Add validates the fields and creates one contact owned by the current
// session. Returns the backend-assigned document id.
func (g *Gateway) Add(ctx context.Context, name, email, phone string, age int) (string, error) {
	fields, err := domain.NewContactFields(name, email, phone, age)
	if err != nil {
		return "", err
	}

	ownerID, err := g.currentOwner()
	if err != nil {
		return "", err
	}

	id, err := g.backend.CreateContact(ctx, ownerID, fields)
	if err != nil {
		return "", Classify(err)
	}
	return id, nil
}

// Update replaces the mutable fields of an existing contact. Ownership is
// not re-checked client-side; a cross-owner attempt surfaces as a
// PermissionError from the backend's access rules.
func (g *Gateway) Update(ctx context.Context, contactID, name, email, phone string, age int) error {
	fields, err := domain.NewContactFields(name, email, phone, age)
	if err != nil {
		return err
	}

	if _, err := g.currentOwner(); err != nil {
		return err
	}

	if err := g.backend.UpdateContact(ctx, contactID, fields); err != nil {
		return Classify(err)
	}
	return nil
}

// Delete removes a contact. Deleting an already-deleted id is treated as
// success; retry logic must not consider a not-found delete fatal.
func (g *Gateway) Delete(ctx context.Context, contactID string) error {
	if _, err := g.currentOwner(); err != nil {
		return err
	}

	if err := g.backend.DeleteContact(ctx, contactID); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return Classify(err)
	}
	return nil
}

func (g *Gateway) currentOwner() (string, error) {
	state := g.monitor.Current()
	if state.State != StateSignedIn {
		return "", ErrNotAuthenticated
	}
	return state.Session.UserID, nil
}
