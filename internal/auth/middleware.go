package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/controller/membership"
	"github.com/kajilog/kajilog/internal/web/handler"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
	"github.com/kajilog/kajilog/internal/web/session"
)

const (
	localsSession      = "sessionData"
	localsGroupContext = "groupContext"
)

// RequireSession is Fiber middleware that loads the session for the request
// and rejects it with 401 when no valid session exists.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return handler.AuthError(c, "")
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			return handler.AuthError(c, "")
		}

		if sessionData.User.ID == 0 {
			return handler.AuthError(c, "")
		}

		c.Locals(localsSession, sessionData)

		return c.Next()
	}
}

// SessionFromCtx returns the session loaded by RequireSession.
func SessionFromCtx(c *fiber.Ctx) (*session.Data, bool) {
	data, ok := c.Locals(localsSession).(*session.Data)
	return data, ok
}

// RequireGroup is Fiber middleware for group-scoped operations. It runs the
// group context resolver against the selected-group cookie and the
// membership store, and rejects anything but an authorized verdict.
// Must be registered after RequireSession.
func RequireGroup(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, ok := SessionFromCtx(c)
		if !ok {
			return handler.AuthError(c, "")
		}

		gctx, err := ResolveGroupContext(db, sessionData.User.ID, c.Cookies(selectedgroup.CookieName))
		if err != nil {
			if errors.Is(err, membership.ErrDBNil) {
				return handler.DatastoreError(c)
			}

			return handler.InternalError(c, err)
		}

		switch gctx.Verdict {
		case VerdictAuthorized:
			c.Locals(localsGroupContext, gctx)
			return c.Next()
		case VerdictUnauthenticated:
			return handler.AuthError(c, "")
		case VerdictNoGroupSelected:
			return handler.ValidationError(c, "No group selected")
		case VerdictForbidden:
			log.Warn().Uint64("user_id", gctx.UserID).Uint("group_id", gctx.GroupID).
				Msg("selected-group cookie rejected: not a member")

			return handler.ForbiddenError(c, "")
		default:
			return handler.InternalError(c, errors.New("unknown group context verdict"))
		}
	}
}

// GroupContextFromCtx returns the context resolved by RequireGroup.
func GroupContextFromCtx(c *fiber.Ctx) (GroupContext, bool) {
	gctx, ok := c.Locals(localsGroupContext).(GroupContext)
	return gctx, ok
}
