// Package selectedgroup is the server-side adapter for the selected-group
// cookie: the per-browser hint of which group the UI currently operates in.
//
// The cookie is deliberately readable by client script (not HttpOnly) so the
// browser UI can show the current group without a round trip. That trades a
// small CSRF surface for responsiveness; the value is never trusted for
// authorization, every consumer revalidates it against the membership store.
package selectedgroup

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// CookieName is the name of the selected-group cookie.
	CookieName = "selectedGroupId"

	// MaxAge is the cookie lifetime in seconds (30 days), so a user's group
	// choice survives across login sessions.
	MaxAge = 60 * 60 * 24 * 30
)

// FromCtx reads the selected group id from the request cookie.
// Returns false when the cookie is absent or not a positive integer.
func FromCtx(c *fiber.Ctx) (uint, bool) {
	return Parse(c.Cookies(CookieName))
}

// Parse interprets a raw cookie value as a group id.
func Parse(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// Set writes the selected group id cookie on the response.
// Secure is disabled in dev mode so the cookie works over plain http.
func Set(c *fiber.Ctx, groupID uint, devMode bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    strconv.FormatUint(uint64(groupID), 10),
		Path:     "/",
		MaxAge:   MaxAge,
		Secure:   !devMode,
		HTTPOnly: false, // client script reads this, see package doc
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Clear removes the selected-group cookie.
func Clear(c *fiber.Ctx) {
	c.ClearCookie(CookieName)
}
