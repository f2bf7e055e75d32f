package invitation

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	invctl "github.com/kajilog/kajilog/internal/db/controller/invitation"
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/db/models"
	"github.com/kajilog/kajilog/internal/web/handler"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Invitation{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestService(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	app := fiber.New()
	db := setupTestDB(t)

	svc := &Service{}
	svc.Init(app, &config.Config{}, db)

	return app, db
}

func decodeEnvelope(t *testing.T, resp *http.Response) handler.Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env handler.Envelope
	require.NoError(t, json.Unmarshal(body, &env))

	return env
}

func TestCreateInvitation(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	g, err := groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, errTest := app.Test(req)
		require.NoError(t, errTest)

		return resp
	}

	t.Run("creates pending invitation", func(t *testing.T) {
		resp := post(`{"email":"bob@example.com","groupId":1,"invitedBy":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		inv, errFind := invctl.FindPendingByEmail(db, "bob@example.com")
		require.NoError(t, errFind)
		assert.Equal(t, g.ID, inv.GroupID)
	})

	t.Run("duplicate pending invitation conflicts", func(t *testing.T) {
		resp := post(`{"email":"bob@example.com","groupId":1,"invitedBy":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, handler.ErrNameConflict, env.Error)
	})

	t.Run("already registered email conflicts", func(t *testing.T) {
		resp := post(`{"email":"alice@example.com","groupId":1,"invitedBy":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing group", func(t *testing.T) {
		resp := post(`{"email":"carol@example.com","groupId":999,"invitedBy":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing inviter", func(t *testing.T) {
		resp := post(`{"email":"carol@example.com","groupId":1,"invitedBy":999}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid email", func(t *testing.T) {
		resp := post(`{"email":"not-an-email","groupId":1,"invitedBy":1}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteInvitation(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	g, err := groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	inv, err := invctl.Create(db, "bob@example.com", g.ID, u.ID)
	require.NoError(t, err)

	t.Run("revokes invitation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, Path+"/1", nil)

		resp, errTest := app.Test(req)
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		_, errFind := invctl.FindByID(db, inv.ID)
		require.ErrorIs(t, errFind, invctl.ErrInvitationNotFound)
	})

	t.Run("repeat delete is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, Path+"/1", nil)

		resp, errTest := app.Test(req)
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListByGroup(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	g, err := groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	_, err = invctl.Create(db, "bob@example.com", g.ID, u.ID)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/groups/1/invitations", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	invitations, ok := env.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, invitations, 1)
}
