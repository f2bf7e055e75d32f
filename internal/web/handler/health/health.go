// Package health provides the liveness endpoint.
package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	"github.com/kajilog/kajilog/internal/web/handler"
)

// Path is the liveness probe path.
const Path = "/healthz"

// Service is the health handler service.
type Service struct {
	handler.Service
	db *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers the health route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db

	app.Get(Path, s.Get)
}

// Get reports liveness including a datastore ping.
func (s *Service) Get(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return handler.DatastoreError(c)
	}

	if err := sqlDB.Ping(); err != nil {
		log.Error().Err(err).Msg("healthz: datastore ping failed")
		return handler.DatastoreError(c)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, fiber.Map{"status": "ok"}, "")
}
