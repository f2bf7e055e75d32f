package group

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kajilog/kajilog/internal/auth"
	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	"github.com/kajilog/kajilog/internal/db/controller/membership"
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/db/models"
	"github.com/kajilog/kajilog/internal/web/handler"
)

type addMemberInput struct {
	UserID uint64 `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member system"`
}

// ListMembers returns all members of a group.
func (s *Service) ListMembers(c *fiber.Ctx) error {
	id, ok := parseGroupID(c, "id")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	if _, err := groupctl.FindByID(s.db, id); err != nil {
		return s.translate(c, err)
	}

	members, err := membership.FindByGroupID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, members, "Group members retrieved successfully")
}

// CurrentMembers returns all members of the selected group. The group is
// taken from the context resolved by auth.RequireGroup, so only an
// authorized member ever reaches this handler.
func (s *Service) CurrentMembers(c *fiber.Ctx) error {
	gctx, ok := auth.GroupContextFromCtx(c)
	if !ok {
		return handler.AuthError(c, "")
	}

	members, err := membership.FindByGroupID(s.db, gctx.GroupID)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, members, "Group members retrieved successfully")
}

// AddMember adds a user to a group. Both the group and the user must exist;
// a duplicate membership reports a conflict.
func (s *Service) AddMember(c *fiber.Ctx) error {
	id, ok := parseGroupID(c, "id")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	var input addMemberInput

	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "Invalid request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, "Valid userId is required")
	}

	g, err := groupctl.FindByID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	if !g.Active() {
		return handler.NotFoundError(c, "Group not found")
	}

	if _, err = userctl.FindByID(s.db, input.UserID); err != nil {
		if errors.Is(err, userctl.ErrUserNotFound) {
			return handler.NotFoundError(c, "User not found")
		}

		return s.translate(c, err)
	}

	member, err := membership.Create(s.db, id, input.UserID, models.Role(input.Role))
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusCreated, member, "Member added successfully")
}

// RemoveMember removes a user from a group. Removing a membership that does
// not exist reports not found; the store itself treats the delete as
// idempotent.
func (s *Service) RemoveMember(c *fiber.Ctx) error {
	groupID, ok := parseGroupID(c, "groupId")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	userID, ok := parseGroupID(c, "userId")
	if !ok {
		return handler.ValidationError(c, "Invalid user ID")
	}

	removed, err := membership.Delete(s.db, groupID, uint64(userID))
	if err != nil {
		return s.translate(c, err)
	}

	if !removed {
		return handler.NotFoundError(c, "Membership not found")
	}

	return handler.JSONSuccess(c, fiber.StatusOK, fiber.Map{"removed": true}, "Member removed successfully")
}
