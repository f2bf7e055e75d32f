package group

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/kajilog/kajilog/internal/auth"
	"github.com/kajilog/kajilog/internal/db/controller/membership"
	"github.com/kajilog/kajilog/internal/web/handler"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
)

type switchInput struct {
	GroupID uint `json:"groupId"`
}

// Switch changes the selected group of the authenticated user. The target is
// only accepted when a membership row exists; a refusal carries no hint of
// whether the group exists at all. On refusal the selected-group cookie is
// left untouched.
func (s *Service) Switch(c *fiber.Ctx) error {
	sessionData, ok := auth.SessionFromCtx(c)
	if !ok {
		return handler.AuthError(c, "")
	}

	var input switchInput

	if err := c.BodyParser(&input); err != nil || input.GroupID == 0 {
		return handler.ValidationError(c, "Valid group ID is required")
	}

	isMember, err := membership.IsUserInGroup(s.db, sessionData.User.ID, input.GroupID)
	if err != nil {
		return s.translate(c, err)
	}

	if !isMember {
		log.Warn().
			Uint64("userId", sessionData.User.ID).
			Uint("groupId", input.GroupID).
			Msg("group switch refused")

		return handler.ForbiddenError(c, "")
	}

	selectedgroup.Set(c, input.GroupID, s.cfg.DevMode)

	return handler.JSONSuccess(c, fiber.StatusOK, fiber.Map{"groupId": input.GroupID}, "Group switched successfully")
}
