package remote_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/abarros/contact-sync/internal/syncclient/remote"
	"github.com/abarros/contact-sync/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventually = 5 * time.Second

func uniqueEmail() string {
	return fmt.Sprintf("sync_%s@example.com", uuid.New().String()[:8])
}

// Full round trip: register, watch the live feed, mutate through the
// gateway, log out.
func TestRemoteBackend_EndToEnd(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	backend := remote.New(ts.BaseURL())
	monitor := syncclient.NewMonitor(backend)
	navigator := syncclient.NewNavigator(backend, monitor, 0)
	gateway := syncclient.NewGateway(backend, monitor)

	navigator.Start()
	monitor.Start()
	defer monitor.Stop()
	defer navigator.Stop()

	require.Equal(t, syncclient.RouteSignIn, navigator.Route())

	require.NoError(t, backend.Register(ctx, uniqueEmail(), "password123"))
	require.Equal(t, syncclient.RouteContacts, navigator.Route())

	id, err := gateway.Add(ctx, "Ana Souza", "ana@example.com", "(11) 98765-4321", 29)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		view := navigator.View()
		return len(view) == 1 && view[0].ID.String() == id
	}, eventually, 20*time.Millisecond, "snapshot push should populate the view")

	require.NoError(t, gateway.Update(ctx, id, "Ana Atualizada", "ana2@example.com", "11987654321", 30))
	require.Eventually(t, func() bool {
		view := navigator.View()
		return len(view) == 1 && view[0].Name == "Ana Atualizada"
	}, eventually, 20*time.Millisecond)

	require.NoError(t, gateway.Delete(ctx, id))
	require.Eventually(t, func() bool {
		return len(navigator.View()) == 0
	}, eventually, 20*time.Millisecond)

	// Deleting again round-trips a 404 which the gateway absorbs
	require.NoError(t, gateway.Delete(ctx, id))

	require.NoError(t, backend.Logout(ctx))
	assert.Equal(t, syncclient.RouteSignIn, navigator.Route())
	assert.Empty(t, navigator.View())

	_, err = gateway.Add(ctx, "Bruno", "bruno@example.com", "21912345678", 34)
	assert.ErrorIs(t, err, syncclient.ErrNotAuthenticated)
}

func TestRemoteBackend_ViewIsSortedNewestFirst(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	backend := remote.New(ts.BaseURL())
	monitor := syncclient.NewMonitor(backend)
	navigator := syncclient.NewNavigator(backend, monitor, 0)
	gateway := syncclient.NewGateway(backend, monitor)

	navigator.Start()
	monitor.Start()
	defer monitor.Stop()
	defer navigator.Stop()

	require.NoError(t, backend.Register(ctx, uniqueEmail(), "password123"))

	names := []string{"first", "second", "third"}
	for _, name := range names {
		_, err := gateway.Add(ctx, name, name+"@example.com", "11987654321", 30)
		require.NoError(t, err)
		// Distinct creation timestamps
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(navigator.View()) == 3
	}, eventually, 20*time.Millisecond)

	view := navigator.View()
	assert.Equal(t, "third", view[0].Name)
	assert.Equal(t, "second", view[1].Name)
	assert.Equal(t, "first", view[2].Name)
}

func TestRemoteBackend_CrossOwnerWriteIsPermissionError(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	// Victim owns one contact
	victim, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	contact := testutil.NewContactBuilder().WithOwner(victim).Build(t, ts.DB.DB)

	backend := remote.New(ts.BaseURL())
	monitor := syncclient.NewMonitor(backend)
	gateway := syncclient.NewGateway(backend, monitor)
	monitor.Start()
	defer monitor.Stop()

	require.NoError(t, backend.Register(ctx, uniqueEmail(), "password123"))

	err := gateway.Update(ctx, contact.ID.String(), "Hijacked", "h@example.com", "11987654321", 30)

	var permErr *syncclient.PermissionError
	assert.ErrorAs(t, err, &permErr)
}

func TestRemoteBackend_LoginFailureKeepsSessionAbsent(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	backend := remote.New(ts.BaseURL())
	monitor := syncclient.NewMonitor(backend)
	monitor.Start()
	defer monitor.Stop()

	err := backend.Login(ctx, "ghost@example.com", "nope")
	require.Error(t, err)

	var backendErr *syncclient.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, syncclient.CodeUnauthenticated, backendErr.Code)
	assert.Equal(t, syncclient.StateSignedOut, monitor.Current().State)
}
