package syncclient_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/abarros/contact-sync/internal/syncclient/backendfake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNavigator(t *testing.T, logoutDelay time.Duration) (*syncclient.Navigator, *backendfake.Backend, *syncclient.Monitor) {
	t.Helper()

	backend := backendfake.New()
	monitor := syncclient.NewMonitor(backend)
	navigator := syncclient.NewNavigator(backend, monitor, logoutDelay)

	navigator.Start()
	monitor.Start()
	t.Cleanup(func() {
		monitor.Stop()
		navigator.Stop()
	})

	return navigator, backend, monitor
}

func TestNavigatorInitialReportMovesOffLoading(t *testing.T) {
	navigator, _, _ := newNavigator(t, 0)

	// No session on startup: straight to the sign-in entry point
	assert.Equal(t, syncclient.RouteSignIn, navigator.Route())
	assert.Empty(t, navigator.View())
}

func TestNavigatorLoginOpensContactFeed(t *testing.T) {
	navigator, backend, _ := newNavigator(t, 0)

	owner := uuid.New()
	base := time.Now()
	backend.SeedContact(owner, mustFields(t, "older"), base.Add(-time.Hour))
	backend.SeedContact(owner, mustFields(t, "newer"), base)

	backend.SignIn(owner.String(), "owner@example.com")

	assert.Equal(t, syncclient.RouteContacts, navigator.Route())
	assert.Equal(t, 1, backend.OpenSubscriptions(owner.String()))

	backend.PushSnapshot(owner.String())

	view := navigator.View()
	require.Len(t, view, 2)
	assert.Equal(t, "newer", view[0].Name)
	assert.Equal(t, "older", view[1].Name)
}

func TestNavigatorAddRoundTrip(t *testing.T) {
	navigator, backend, monitor := newNavigator(t, 0)
	gateway := syncclient.NewGateway(backend, monitor)

	owner := uuid.New()
	backend.SignIn(owner.String(), "owner@example.com")

	id, err := gateway.Add(context.Background(), "Ana Souza", "ana@example.com", "11987654321", 29)
	require.NoError(t, err)

	// The write's snapshot push, not the Add return value, feeds the view
	view := navigator.View()
	require.Len(t, view, 1)
	assert.Equal(t, id, view[0].ID.String())
	assert.Equal(t, "Ana Souza", view[0].Name)
}

func TestNavigatorLogoutTearsDownImmediately(t *testing.T) {
	navigator, backend, _ := newNavigator(t, 0)

	owner := uuid.New()
	backend.SeedContact(owner, mustFields(t, "ana"), time.Now())
	backend.SignIn(owner.String(), "owner@example.com")
	backend.PushSnapshot(owner.String())
	require.NotEmpty(t, navigator.View())

	backend.SignOut()

	assert.Equal(t, syncclient.RouteSignIn, navigator.Route())
	assert.Empty(t, navigator.View())
	assert.Zero(t, backend.OpenSubscriptions(owner.String()))
}

func TestNavigatorLogoutGraceDelaysRouteOnly(t *testing.T) {
	delay := 50 * time.Millisecond
	navigator, backend, _ := newNavigator(t, delay)

	owner := uuid.New()
	backend.SeedContact(owner, mustFields(t, "ana"), time.Now())
	backend.SignIn(owner.String(), "owner@example.com")
	backend.PushSnapshot(owner.String())

	backend.SignOut()

	// The subscription and view drop right away; only the route lingers
	assert.Zero(t, backend.OpenSubscriptions(owner.String()))
	assert.Empty(t, navigator.View())
	assert.Equal(t, syncclient.RouteContacts, navigator.Route())

	require.Eventually(t, func() bool {
		return navigator.Route() == syncclient.RouteSignIn
	}, time.Second, 5*time.Millisecond)
}

func TestNavigatorLoginDuringGraceWins(t *testing.T) {
	delay := 50 * time.Millisecond
	navigator, backend, _ := newNavigator(t, delay)

	owner := uuid.New()
	backend.SignIn(owner.String(), "owner@example.com")
	backend.SignOut()
	backend.SignIn(owner.String(), "owner@example.com")

	assert.Equal(t, syncclient.RouteContacts, navigator.Route())

	// The pending sign-in navigation must not fire after the new login
	time.Sleep(2 * delay)
	assert.Equal(t, syncclient.RouteContacts, navigator.Route())
	assert.Equal(t, 1, backend.OpenSubscriptions(owner.String()))
}

func TestNavigatorQueryFailureAndRefresh(t *testing.T) {
	navigator, backend, _ := newNavigator(t, 0)

	owner := uuid.New()
	backend.SeedContact(owner, mustFields(t, "ana"), time.Now())
	backend.SignIn(owner.String(), "owner@example.com")

	backend.FailSubscriptions(owner.String(), errors.New("listener torn down"))

	var queryErr *syncclient.QueryFailedError
	require.True(t, errors.As(navigator.SubscriptionError(), &queryErr))

	// The dead subscription is not auto-healed; an explicit refresh opens a
	// fresh one
	require.NoError(t, navigator.Refresh())
	assert.NoError(t, navigator.SubscriptionError())
	assert.Equal(t, 1, backend.OpenSubscriptions(owner.String()))

	backend.PushSnapshot(owner.String())
	assert.Len(t, navigator.View(), 1)
}

func TestNavigatorRefreshWhileSignedOut(t *testing.T) {
	navigator, _, _ := newNavigator(t, 0)

	assert.ErrorIs(t, navigator.Refresh(), syncclient.ErrNotAuthenticated)
}

func TestNavigatorNotifiesObservers(t *testing.T) {
	backend := backendfake.New()
	monitor := syncclient.NewMonitor(backend)
	navigator := syncclient.NewNavigator(backend, monitor, 0)

	var calls int
	navigator.OnChange(func() { calls++ })

	navigator.Start()
	monitor.Start()
	defer monitor.Stop()
	defer navigator.Stop()

	initial := calls
	require.Positive(t, initial, "initial session report should notify")

	owner := uuid.New()
	backend.SignIn(owner.String(), "owner@example.com")
	assert.Greater(t, calls, initial)
}
