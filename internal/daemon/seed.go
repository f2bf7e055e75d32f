package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	invctl "github.com/kajilog/kajilog/internal/db/controller/invitation"
	"github.com/kajilog/kajilog/internal/db/models"
)

// seed bootstraps an empty installation: when enabled and no group exists
// yet, it creates the initial group owned by a system account and leaves a
// pending invitation for the configured admin email. Registration is gated
// on invitations, so without this first invitation nobody could ever sign
// in to a fresh deployment.
func seed(cfg *config.Config, db *gorm.DB) {
	if !cfg.Bootstrap.Enabled {
		return
	}

	var count int64
	db.Model(&models.Group{}).Count(&count)

	if count > 0 {
		return
	}

	system := &models.User{
		GoogleID: "system",
		Email:    "system@localhost",
		Name:     "System",
	}
	if err := db.Create(system).Error; err != nil {
		log.Error().Err(err).Msg("bootstrap: creating system user failed")
		return
	}

	g, err := groupctl.Create(db, cfg.Bootstrap.GroupName, system.ID)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap: creating initial group failed")
		return
	}

	if cfg.Bootstrap.AdminEmail == "" {
		log.Warn().Msg("bootstrap: no admin email configured, nobody can sign in until invited")
		return
	}

	_, err = invctl.Create(db, cfg.Bootstrap.AdminEmail, g.ID, system.ID)
	if err != nil && !errors.Is(err, invctl.ErrAlreadyInvited) {
		log.Error().Err(err).Msg("bootstrap: creating admin invitation failed")
		return
	}

	log.Info().
		Str("group", g.Name).
		Str("adminEmail", cfg.Bootstrap.AdminEmail).
		Msg("bootstrap: initial group and admin invitation created")
}
