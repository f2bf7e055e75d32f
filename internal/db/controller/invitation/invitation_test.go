package invitation

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.Invitation{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := Create(nil, "alice@example.com", 1, 1)
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty email", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Create(db, "", 1, 1)
		require.ErrorIs(t, err, ErrEmailEmpty)
	})

	t.Run("creates pending invitation", func(t *testing.T) {
		db := setupTestDB(t)

		inv, err := Create(db, "alice@example.com", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationPending, inv.Status)
		assert.Equal(t, uint(1), inv.GroupID)
		assert.Equal(t, uint64(2), inv.InvitedBy)
	})

	t.Run("duplicate pending invitation is rejected", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Create(db, "alice@example.com", 1, 2)
		require.NoError(t, err)

		_, err = Create(db, "alice@example.com", 3, 2)
		require.ErrorIs(t, err, ErrAlreadyInvited)
	})

	t.Run("email is stored lowercased", func(t *testing.T) {
		db := setupTestDB(t)

		inv, err := Create(db, "Bob@Example.com", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", inv.Email)

		// a differently-cased duplicate is still the same mailbox
		_, err = Create(db, "BOB@example.COM", 3, 2)
		require.ErrorIs(t, err, ErrAlreadyInvited)
	})

	t.Run("re-invite allowed after acceptance", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Create(db, "alice@example.com", 1, 2)
		require.NoError(t, err)
		require.NoError(t, Accept(db, "alice@example.com"))

		_, err = Create(db, "alice@example.com", 1, 2)
		require.NoError(t, err)
	})
}

func TestFindPendingByEmail(t *testing.T) {
	db := setupTestDB(t)

	_, err := FindPendingByEmail(db, "alice@example.com")
	require.ErrorIs(t, err, ErrInvitationNotFound)

	created, err := Create(db, "alice@example.com", 1, 2)
	require.NoError(t, err)

	inv, err := FindPendingByEmail(db, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, inv.ID)

	require.NoError(t, Accept(db, "alice@example.com"))

	_, err = FindPendingByEmail(db, "alice@example.com")
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestEmailMatchingIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Bob@Example.com", 1, 2)
	require.NoError(t, err)

	// the provider may assert any casing of the invited address
	inv, err := FindPendingByEmail(db, "bob@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, inv.ID)

	require.NoError(t, Accept(db, "BOB@example.com"))

	_, err = FindPendingByEmail(db, "bob@example.com")
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAccept(t *testing.T) {
	t.Run("no pending invitation", func(t *testing.T) {
		db := setupTestDB(t)

		require.ErrorIs(t, Accept(db, "alice@example.com"), ErrInvitationNotFound)
	})

	t.Run("transitions exactly once", func(t *testing.T) {
		db := setupTestDB(t)

		created, err := Create(db, "alice@example.com", 1, 2)
		require.NoError(t, err)

		require.NoError(t, Accept(db, "alice@example.com"))

		inv, err := FindByID(db, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationAccepted, inv.Status)

		// second acceptance has nothing to transition
		require.ErrorIs(t, Accept(db, "alice@example.com"), ErrInvitationNotFound)
	})
}

func TestFindByGroupID(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "alice@example.com", 1, 2)
	require.NoError(t, err)
	_, err = Create(db, "bob@example.com", 1, 2)
	require.NoError(t, err)
	_, err = Create(db, "carol@example.com", 3, 2)
	require.NoError(t, err)

	invitations, err := FindByGroupID(db, 1)
	require.NoError(t, err)
	require.Len(t, invitations, 2)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Delete(db, 42), ErrInvitationNotFound)

	inv, err := Create(db, "alice@example.com", 1, 2)
	require.NoError(t, err)

	require.NoError(t, Delete(db, inv.ID))

	_, err = FindByID(db, inv.ID)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}
