// Package google provides the Google sign-in endpoints: login redirect,
// OAuth callback and logout.
package google

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/auth"
	"github.com/kajilog/kajilog/internal/config"
	"github.com/kajilog/kajilog/internal/web/handler"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
	"github.com/kajilog/kajilog/internal/web/session"
)

const (
	// LoginPath initiates the Google sign-in flow.
	LoginPath = "/auth/google/login"

	// CallbackPath is the OAuth callback target.
	CallbackPath = "/auth/google/callback"

	// LogoutPath ends the session.
	LogoutPath = "/auth/google/logout"

	// stateTTL is how long an issued state token stays valid.
	stateTTL = 5 * time.Minute
)

// Service is the Google sign-in handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.GoogleProvider
	gate     *auth.Gate

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// Handler is the exported instance.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the Google sign-in handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.gate = auth.NewGate(db, cfg.Auth.OpenRegistration, cfg.Auth.SyncProfile)

	if !cfg.Auth.Google.Enabled {
		log.Info().Msg("google authentication is disabled by configuration")
		return
	}

	provider, err := auth.NewGoogleProvider(context.Background(), &cfg.Auth.Google)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Google provider - sign-in will be unavailable")
		return
	}

	s.provider = provider

	log.Info().Msg("google authentication provider initialized")

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Get(LogoutPath, s.Logout)

	go s.cleanupStates()
}

// Login redirects the browser to Google's consent screen.
func (s *Service) Login(c *fiber.Ctx) error {
	if s.provider == nil {
		return handler.JSONError(c, fiber.StatusServiceUnavailable, handler.ErrNameInternal,
			"Google authentication is not available")
	}

	state, err := auth.GenerateStateToken()
	if err != nil {
		return handler.InternalError(c, err)
	}

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateTTL)
	s.stateMu.Unlock()

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback completes the sign-in: verifies the provider assertion, runs the
// gate, establishes the session and preselects a group on first login.
func (s *Service) Callback(c *fiber.Ctx) error {
	if s.provider == nil {
		return handler.JSONError(c, fiber.StatusServiceUnavailable, handler.ErrNameInternal,
			"Google authentication is not available")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return handler.ValidationError(c, "Missing code or state in callback")
	}

	if !s.consumeState(state) {
		return handler.ValidationError(c, "Invalid or expired state token")
	}

	profile, err := s.provider.HandleCallback(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("google callback failed")
		return handler.AuthError(c, "Authentication failed")
	}

	authenticatedUser, err := s.gate.Authenticate(profile)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotInvited):
			return handler.ForbiddenError(c, "This email has not been invited")
		case errors.Is(err, auth.ErrIncompleteProfile):
			return handler.AuthError(c, "Incomplete identity profile")
		default:
			// fail closed, cause stays server-side
			return handler.AuthError(c, "Authentication failed")
		}
	}

	selected, hasSelection := selectedgroup.FromCtx(c)
	if !hasSelection {
		defaultGroup, found, errDefault := s.gate.DefaultGroupID(authenticatedUser.ID)
		if errDefault != nil {
			log.Error().Err(errDefault).Uint64("user_id", authenticatedUser.ID).
				Msg("default group selection failed")

			return handler.AuthError(c, "Authentication failed")
		}

		if found {
			selectedgroup.Set(c, defaultGroup, s.cfg.DevMode)
			selected = defaultGroup
		}
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return handler.InternalError(c, err)
	}

	userSession := &session.Data{
		User:            *authenticatedUser,
		SelectedGroupID: selected,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return handler.InternalError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", authenticatedUser.ID).Msg("user logged in via Google")

	return c.Redirect(handler.RootPath)
}

// Logout deletes the server-side session and clears the session cookie.
// The selected-group cookie stays: it is a browser preference and is
// revalidated against the membership store on every use anyway.
func (s *Service) Logout(c *fiber.Ctx) error {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to delete session record")
		}
	}

	c.ClearCookie(session.CookieName)

	return handler.JSONSuccess(c, fiber.StatusOK, nil, "Logged out")
}

// consumeState validates a state token and removes it, expired or not.
func (s *Service) consumeState(state string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiration, exists := s.stateStore[state]
	if !exists {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiration)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		s.stateMu.Lock()
		for state, expiration := range s.stateStore {
			if now.After(expiration) {
				delete(s.stateStore, state)
			}
		}
		s.stateMu.Unlock()
	}
}
