package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHandler(t *testing.T, h fiber.Handler) (*http.Response, Envelope) {
	t.Helper()

	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env))

	return resp, env
}

func TestJSONSuccess(t *testing.T) {
	resp, env := runHandler(t, func(c *fiber.Ctx) error {
		return JSONSuccess(c, fiber.StatusCreated, fiber.Map{"id": 1}, "created")
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.Empty(t, env.Error)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		handler     fiber.Handler
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:        "validation",
			handler:     func(c *fiber.Ctx) error { return ValidationError(c, "bad input") },
			wantStatus:  http.StatusBadRequest,
			wantError:   ErrNameValidation,
			wantMessage: "bad input",
		},
		{
			name:        "auth default message",
			handler:     func(c *fiber.Ctx) error { return AuthError(c, "") },
			wantStatus:  http.StatusUnauthorized,
			wantError:   ErrNameAuth,
			wantMessage: "User not authenticated",
		},
		{
			name:        "forbidden default hides existence",
			handler:     func(c *fiber.Ctx) error { return ForbiddenError(c, "") },
			wantStatus:  http.StatusForbidden,
			wantError:   ErrNameForbidden,
			wantMessage: "You are not permitted to act on this group",
		},
		{
			name:        "not found",
			handler:     func(c *fiber.Ctx) error { return NotFoundError(c, "") },
			wantStatus:  http.StatusNotFound,
			wantError:   ErrNameNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "conflict",
			handler:     func(c *fiber.Ctx) error { return ConflictError(c, "already there") },
			wantStatus:  http.StatusConflict,
			wantError:   ErrNameConflict,
			wantMessage: "already there",
		},
		{
			name:        "datastore",
			handler:     func(c *fiber.Ctx) error { return DatastoreError(c) },
			wantStatus:  http.StatusServiceUnavailable,
			wantError:   ErrNameDatastore,
			wantMessage: "Datastore unavailable",
		},
		{
			name:        "internal suppresses detail",
			handler:     func(c *fiber.Ctx) error { return InternalError(c, errors.New("secret cause")) },
			wantStatus:  http.StatusInternalServerError,
			wantError:   ErrNameInternal,
			wantMessage: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := runHandler(t, tt.handler)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantError, env.Error)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

func TestInternalErrorNeverLeaksCause(t *testing.T) {
	_, env := runHandler(t, func(c *fiber.Ctx) error {
		return InternalError(c, errors.New("password=hunter2"))
	})

	assert.NotContains(t, env.Message, "hunter2")
}
