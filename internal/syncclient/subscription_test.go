package syncclient_test

import (
	"errors"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/abarros/contact-sync/internal/syncclient/backendfake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFields(t *testing.T, name string) domain.ContactFields {
	t.Helper()
	fields, err := domain.NewContactFields(name, name+"@example.com", "11987654321", 30)
	require.NoError(t, err)
	return fields
}

func TestOpenRequiresOwner(t *testing.T) {
	backend := backendfake.New()

	_, err := syncclient.Open(backend, "",
		func(*syncclient.Subscription, []domain.Contact) {},
		func(*syncclient.Subscription, error) {})

	assert.ErrorIs(t, err, syncclient.ErrNotAuthenticated)
}

func TestSubscriptionDeliversSnapshots(t *testing.T) {
	backend := backendfake.New()
	owner := uuid.New()
	backend.SeedContact(owner, mustFields(t, "ana"), time.Now())

	var delivered [][]domain.Contact
	sub, err := syncclient.Open(backend, owner.String(),
		func(s *syncclient.Subscription, docs []domain.Contact) {
			delivered = append(delivered, docs)
		},
		func(*syncclient.Subscription, error) {
			t.Fatal("unexpected error callback")
		})
	require.NoError(t, err)
	assert.True(t, sub.Alive())
	assert.Equal(t, owner.String(), sub.OwnerID())

	backend.PushSnapshot(owner.String())

	require.Len(t, delivered, 1)
	require.Len(t, delivered[0], 1)
	assert.Equal(t, "ana", delivered[0][0].Name)
}

func TestSubscriptionOnlySeesItsOwner(t *testing.T) {
	backend := backendfake.New()
	owner := uuid.New()
	other := uuid.New()
	backend.SeedContact(other, mustFields(t, "stranger"), time.Now())

	var delivered int
	_, err := syncclient.Open(backend, owner.String(),
		func(*syncclient.Subscription, []domain.Contact) { delivered++ },
		func(*syncclient.Subscription, error) {})
	require.NoError(t, err)

	backend.PushSnapshot(other.String())
	assert.Zero(t, delivered)
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	backend := backendfake.New()
	owner := uuid.New()

	var delivered int
	sub, err := syncclient.Open(backend, owner.String(),
		func(*syncclient.Subscription, []domain.Contact) { delivered++ },
		func(*syncclient.Subscription, error) {})
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assert.False(t, sub.Alive())
	assert.Zero(t, backend.OpenSubscriptions(owner.String()))

	backend.PushSnapshot(owner.String())
	assert.Zero(t, delivered)
}

func TestSubscriptionDoubleCloseFailsFast(t *testing.T) {
	backend := backendfake.New()
	owner := uuid.New()

	sub, err := syncclient.Open(backend, owner.String(),
		func(*syncclient.Subscription, []domain.Contact) {},
		func(*syncclient.Subscription, error) {})
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assert.ErrorIs(t, sub.Close(), syncclient.ErrSubscriptionClosed)
}

func TestSubscriptionListenerErrorIsFatal(t *testing.T) {
	backend := backendfake.New()
	owner := uuid.New()

	var gotErr error
	sub, err := syncclient.Open(backend, owner.String(),
		func(*syncclient.Subscription, []domain.Contact) {
			t.Fatal("unexpected snapshot after failure")
		},
		func(s *syncclient.Subscription, err error) {
			gotErr = err
		})
	require.NoError(t, err)

	cause := errors.New("listener torn down")
	backend.FailSubscriptions(owner.String(), cause)

	var queryErr *syncclient.QueryFailedError
	require.True(t, errors.As(gotErr, &queryErr))
	assert.ErrorIs(t, gotErr, cause)
	assert.False(t, sub.Alive())
}

func TestOpenClassifiesBackendFailure(t *testing.T) {
	backend := backendfake.New()
	backend.SetSubscribeError(&syncclient.BackendError{
		Code:    syncclient.CodeUnavailable,
		Message: "connection refused",
	})

	_, err := syncclient.Open(backend, uuid.New().String(),
		func(*syncclient.Subscription, []domain.Contact) {},
		func(*syncclient.Subscription, error) {})

	var transient *syncclient.TransientError
	assert.True(t, errors.As(err, &transient))
}
