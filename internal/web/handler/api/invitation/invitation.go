// Package invitation provides the JSON API handlers for group invitations.
package invitation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	invctl "github.com/kajilog/kajilog/internal/db/controller/invitation"
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/web/handler"
)

const (
	// Path is the base path for the invitations API.
	Path = handler.APIBasePath + "/invitations"

	// RouteByID addresses a single invitation.
	RouteByID = Path + "/:id"
	// RouteByGroup lists the invitations targeting a group.
	RouteByGroup = handler.APIBasePath + "/groups/:id/invitations"
)

// Service provides the invitation API handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Post(Path, s.Create)
	app.Get(RouteByID, s.Get)
	app.Delete(RouteByID, s.Delete)
	app.Get(RouteByGroup, s.ListByGroup)
}

type createInput struct {
	Email     string `json:"email" validate:"required,email"`
	GroupID   uint   `json:"groupId" validate:"required,gt=0"`
	InvitedBy uint64 `json:"invitedBy" validate:"required,gt=0"`
}

// List returns all invitations.
func (s *Service) List(c *fiber.Ctx) error {
	invitations, err := invctl.FindAll(s.db)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, invitations, "Invitations retrieved successfully")
}

// Get returns a single invitation.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return handler.ValidationError(c, "Invalid invitation ID")
	}

	inv, err := invctl.FindByID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, inv, "Invitation retrieved successfully")
}

// Create issues a pending invitation. The target group and the inviter must
// exist; an email that already signed up, or that already has a pending
// invitation, is rejected with a conflict.
func (s *Service) Create(c *fiber.Ctx) error {
	var input createInput

	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "Invalid request body")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, "Valid email, groupId and invitedBy are required")
	}

	g, err := groupctl.FindByID(s.db, input.GroupID)
	if err != nil {
		return s.translate(c, err)
	}

	if !g.Active() {
		return handler.NotFoundError(c, "Group not found")
	}

	if _, err = userctl.FindByID(s.db, input.InvitedBy); err != nil {
		if errors.Is(err, userctl.ErrUserNotFound) {
			return handler.NotFoundError(c, "Inviting user not found")
		}

		return s.translate(c, err)
	}

	if _, err = userctl.FindByEmail(s.db, input.Email); err == nil {
		return handler.ConflictError(c, "A user with this email already exists")
	} else if !errors.Is(err, userctl.ErrUserNotFound) {
		return s.translate(c, err)
	}

	inv, err := invctl.Create(s.db, input.Email, input.GroupID, input.InvitedBy)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusCreated, inv, "Invitation created successfully")
}

// ListByGroup returns the invitations targeting a group.
func (s *Service) ListByGroup(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return handler.ValidationError(c, "Invalid group ID")
	}

	if _, err := groupctl.FindByID(s.db, uint(id)); err != nil {
		return s.translate(c, err)
	}

	invitations, err := invctl.FindByGroupID(s.db, uint(id))
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, invitations, "Group invitations retrieved successfully")
}

// Delete revokes an invitation.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return handler.ValidationError(c, "Invalid invitation ID")
	}

	if err := invctl.Delete(s.db, id); err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true}, "Invitation deleted successfully")
}

func parseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}

func (s *Service) translate(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, invctl.ErrInvitationNotFound):
		return handler.NotFoundError(c, "Invitation not found")
	case errors.Is(err, invctl.ErrAlreadyInvited):
		return handler.ConflictError(c, "A pending invitation for this email already exists")
	case errors.Is(err, invctl.ErrEmailEmpty):
		return handler.ValidationError(c, "Email is required")
	case errors.Is(err, groupctl.ErrGroupNotFound):
		return handler.NotFoundError(c, "Group not found")
	case errors.Is(err, invctl.ErrDBNil), errors.Is(err, groupctl.ErrDBNil), errors.Is(err, userctl.ErrDBNil):
		return handler.DatastoreError(c)
	default:
		return handler.InternalError(c, err)
	}
}
