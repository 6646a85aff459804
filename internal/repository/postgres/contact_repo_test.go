package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/repository/postgres"
	"github.com/abarros/contact-sync/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	contact := &domain.Contact{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Name:    "Ana Souza",
		Email:   "ana@example.com",
		Phone:   "11987654321",
		Age:     29,
	}
	require.NoError(t, repo.Create(ctx, contact))

	got, err := repo.GetByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, got.ID)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Equal(t, "11987654321", got.Phone)
	assert.Equal(t, 29, got.Age)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestContactRepository_GetByIDNotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestContactRepository_GetByOwnerIDFiltersOwner(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.SeedContacts(t, testDB.DB, owner, 3)
	testutil.SeedContacts(t, testDB.DB, other, 2)

	contacts, err := repo.GetByOwnerID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	for _, c := range contacts {
		assert.Equal(t, owner.ID, c.OwnerID)
	}
}

func TestContactRepository_GetByOwnerIDEmpty(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)

	contacts, err := repo.GetByOwnerID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestContactRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	contact := testutil.NewContactBuilder().WithOwner(owner).WithName("Before").Build(t, testDB.DB)

	contact.Name = "After"
	contact.Age = 31
	contact.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, contact))

	got, err := repo.GetByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, 31, got.Age)
}

func TestContactRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	contact := testutil.NewContactBuilder().WithOwner(owner).Build(t, testDB.DB)

	require.NoError(t, repo.Delete(ctx, contact.ID))

	_, err := repo.GetByID(ctx, contact.ID)
	assert.ErrorIs(t, err, domain.ErrContactNotFound)

	// Deleting the same row again is a no-op at this layer
	assert.NoError(t, repo.Delete(ctx, contact.ID))
}

func TestChangeEventRepository_OrderAndLimit(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewChangeEventRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	contactID := uuid.New()

	base := time.Now().Add(-time.Hour)
	actions := []domain.ChangeAction{
		domain.ChangeActionCreate,
		domain.ChangeActionUpdate,
		domain.ChangeActionDelete,
	}
	for i, action := range actions {
		event := &domain.ChangeEvent{
			ID:        uuid.New(),
			OwnerID:   owner.ID,
			ContactID: contactID,
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, event))
	}

	events, err := repo.GetByOwnerID(ctx, owner.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.ChangeActionDelete, events[0].Action, "newest first")
	assert.Equal(t, domain.ChangeActionCreate, events[2].Action)

	limited, err := repo.GetByOwnerID(ctx, owner.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
