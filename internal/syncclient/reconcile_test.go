package syncclient_test

import (
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactAt(name string, createdAt time.Time) domain.Contact {
	return domain.Contact{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		Phone:     "11987654321",
		Age:       30,
		CreatedAt: createdAt,
	}
}

func TestReconcileOrdersNewestFirst(t *testing.T) {
	base := time.Now()
	oldest := contactAt("oldest", base.Add(-2*time.Hour))
	middle := contactAt("middle", base.Add(-time.Hour))
	newest := contactAt("newest", base)

	got := syncclient.Reconcile([]domain.Contact{oldest, newest, middle})

	require.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].Name)
	assert.Equal(t, "middle", got[1].Name)
	assert.Equal(t, "oldest", got[2].Name)
}

func TestReconcileIsDeliveryOrderIndependent(t *testing.T) {
	base := time.Now()
	a := contactAt("a", base.Add(-3*time.Hour))
	b := contactAt("b", base.Add(-2*time.Hour))
	c := contactAt("c", base.Add(-time.Hour))
	d := contactAt("d", base)

	permutations := [][]domain.Contact{
		{a, b, c, d},
		{d, c, b, a},
		{b, d, a, c},
		{c, a, d, b},
	}

	want := syncclient.Reconcile(permutations[0])
	for i, perm := range permutations[1:] {
		assert.Equal(t, want, syncclient.Reconcile(perm), "permutation %d", i+1)
	}
}

func TestReconcileZeroTimestampSortsOldest(t *testing.T) {
	base := time.Now()
	resolved := contactAt("resolved", base.Add(-24*time.Hour))
	pending := contactAt("pending", time.Time{})

	got := syncclient.Reconcile([]domain.Contact{pending, resolved})

	require.Len(t, got, 2)
	assert.Equal(t, "resolved", got[0].Name)
	assert.Equal(t, "pending", got[1].Name)
}

func TestReconcileBreaksTimestampTiesByID(t *testing.T) {
	at := time.Now()
	x := contactAt("x", at)
	y := contactAt("y", at)

	first := syncclient.Reconcile([]domain.Contact{x, y})
	second := syncclient.Reconcile([]domain.Contact{y, x})

	assert.Equal(t, first, second)
}

func TestReconcileLeavesInputUntouched(t *testing.T) {
	base := time.Now()
	in := []domain.Contact{
		contactAt("older", base.Add(-time.Hour)),
		contactAt("newer", base),
	}

	syncclient.Reconcile(in)

	assert.Equal(t, "older", in[0].Name)
	assert.Equal(t, "newer", in[1].Name)
}

func TestReconcileEmptySnapshot(t *testing.T) {
	got := syncclient.Reconcile(nil)
	assert.Empty(t, got)
}
