package user

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
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/db/models"
	"github.com/kajilog/kajilog/internal/web/handler"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.GroupMember{})
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

func TestGetUser(t *testing.T) {
	app, db := newTestService(t)

	_, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	t.Run("existing user", func(t *testing.T) {
		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, Path+"/1", nil))
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing user", func(t *testing.T) {
		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, Path+"/999", nil))
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, Path+"/abc", nil))
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateUser(t *testing.T) {
	app, db := newTestService(t)

	_, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	put := func(target, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, errTest := app.Test(req)
		require.NoError(t, errTest)

		return resp
	}

	t.Run("renames user", func(t *testing.T) {
		resp := put(Path+"/1", `{"name":"Alice Smith"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		u, errFind := userctl.FindByID(db, 1)
		require.NoError(t, errFind)
		assert.Equal(t, "Alice Smith", u.Name)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("no fields", func(t *testing.T) {
		resp := put(Path+"/1", `{}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, handler.ErrNameValidation, env.Error)
	})

	t.Run("invalid email", func(t *testing.T) {
		resp := put(Path+"/1", `{"email":"not-an-email"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing user", func(t *testing.T) {
		resp := put(Path+"/999", `{"name":"Nobody"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListUserGroups(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	_, err = groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	t.Run("lists memberships", func(t *testing.T) {
		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, Path+"/1/groups", nil))
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		members, ok := env.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, members, 1)
	})

	t.Run("missing user", func(t *testing.T) {
		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, Path+"/999/groups", nil))
		require.NoError(t, errTest)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
