package group

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
)

func getCurrent(t *testing.T, app testApp, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, RouteCurrent, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestCurrentRequiresSession(t *testing.T) {
	app, _ := newTestService(t)

	resp := getCurrent(t, app)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentVerdicts(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	_, err = groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	sessionCookie := loginAs(t, u)

	t.Run("no cookie", func(t *testing.T) {
		resp := getCurrent(t, app, sessionCookie)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "no-group-selected", data["status"])
	})

	t.Run("member of selected group", func(t *testing.T) {
		resp := getCurrent(t, app, sessionCookie,
			&http.Cookie{Name: selectedgroup.CookieName, Value: "1"})
		defer resp.Body.Close()

		env := decodeEnvelope(t, resp)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "authorized", data["status"])
		assert.EqualValues(t, 1, data["groupId"])
		assert.Equal(t, "Home", data["groupName"])
	})

	t.Run("stale cookie for foreign group", func(t *testing.T) {
		resp := getCurrent(t, app, sessionCookie,
			&http.Cookie{Name: selectedgroup.CookieName, Value: "999"})
		defer resp.Body.Close()

		env := decodeEnvelope(t, resp)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "forbidden", data["status"])
	})
}

func getCurrentMembers(t *testing.T, app testApp, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, RouteCurrentMembers, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestCurrentMembers(t *testing.T) {
	app, db := newTestService(t)

	u, err := userctl.Create(db, "sub-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	g, err := groupctl.Create(db, "Home", u.ID)
	require.NoError(t, err)

	sessionCookie := loginAs(t, u)
	groupCookie := &http.Cookie{Name: selectedgroup.CookieName, Value: "1"}

	t.Run("no session", func(t *testing.T) {
		resp := getCurrentMembers(t, app, groupCookie)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("no group selected", func(t *testing.T) {
		resp := getCurrentMembers(t, app, sessionCookie)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("foreign group", func(t *testing.T) {
		resp := getCurrentMembers(t, app, sessionCookie,
			&http.Cookie{Name: selectedgroup.CookieName, Value: "999"})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("authorized member", func(t *testing.T) {
		resp := getCurrentMembers(t, app, sessionCookie, groupCookie)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		members, ok := env.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, members, 1)

		member, ok := members[0].(map[string]interface{})
		require.True(t, ok)
		assert.EqualValues(t, g.ID, member["GroupID"])
	})
}
