// Package daemon ties configuration, database and web service together.
package daemon

import (
	"github.com/glebarez/sqlite"
	sessionsqlite "github.com/gofiber/storage/sqlite3/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	"github.com/kajilog/kajilog/internal/db/dsn"
	"github.com/kajilog/kajilog/internal/db/models"
	"github.com/kajilog/kajilog/internal/web"
	"github.com/kajilog/kajilog/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start(addr string) error {
	return d.webService.Start(addr)
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := sqlite.Open(dsn.Create(cfg))

	db, err := gorm.Open(dbDriver, &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Invitation{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sessionsqlite.New(sessionsqlite.Config{
		Database: cfg.DB.SessionPath,
		Table:    "sessions",
	})

	session.Init(sessionStorage)

	return &Daemon{
		webService: *web.New(cfg, db),
	}
}
