package config

import (
	"time"

	"github.com/kajilog/kajilog/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Bootstrap Bootstrap
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

// Google holds the Google OIDC client settings.
type Google struct {
	Enabled      bool
	ProviderURL  string // discovery URL, defaults to https://accounts.google.com
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Auth holds the authentication policy settings.
type Auth struct {
	Google Google

	// OpenRegistration creates accounts for any verified Google identity.
	// When false, sign-in requires a pending invitation for the email.
	OpenRegistration bool

	// SyncProfile re-syncs email and display name from the provider on
	// every login of a returning user.
	SyncProfile bool
}

// Bootstrap optionally seeds an initial group and a pending invitation so
// the first member can sign in under invitation-gated registration.
type Bootstrap struct {
	Enabled    bool
	GroupName  string
	AdminEmail string
}
