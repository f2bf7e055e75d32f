// Package user provides the JSON API handlers for users.
package user

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/config"
	"github.com/kajilog/kajilog/internal/db/controller/membership"
	userctl "github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/web/handler"
)

const (
	// Path is the base path for the users API.
	Path = handler.APIBasePath + "/users"

	// RouteByID addresses a single user.
	RouteByID = Path + "/:id"
	// RouteGroups lists the group memberships of a user.
	RouteGroups = Path + "/:id/groups"
)

// Service provides the user API handlers.
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
	app.Get(RouteByID, s.Get)
	app.Put(RouteByID, s.Update)
	app.Get(RouteGroups, s.ListGroups)
}

type updateInput struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

// List returns all users.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := userctl.FindAll(s.db)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, users, "Users retrieved successfully")
}

// Get returns a single user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseUserID(c)
	if !ok {
		return handler.ValidationError(c, "Invalid user ID")
	}

	u, err := userctl.FindByID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, u, "User retrieved successfully")
}

// Update changes the name and/or email of a user. At least one field is
// required; absent fields keep their value.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := parseUserID(c)
	if !ok {
		return handler.ValidationError(c, "Invalid user ID")
	}

	var input updateInput

	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "Invalid request body")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, "Invalid name or email")
	}

	u, err := userctl.Update(s.db, id, input.Name, input.Email)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, u, "User updated successfully")
}

// ListGroups returns the memberships of a user, with group names.
func (s *Service) ListGroups(c *fiber.Ctx) error {
	id, ok := parseUserID(c)
	if !ok {
		return handler.ValidationError(c, "Invalid user ID")
	}

	if _, err := userctl.FindByID(s.db, id); err != nil {
		return s.translate(c, err)
	}

	members, err := membership.FindByUserID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, members, "User groups retrieved successfully")
}

func parseUserID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}

func (s *Service) translate(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, userctl.ErrUserNotFound):
		return handler.NotFoundError(c, "User not found")
	case errors.Is(err, userctl.ErrNothingToUpdate):
		return handler.ValidationError(c, "At least one of name or email is required")
	case errors.Is(err, userctl.ErrDBNil), errors.Is(err, membership.ErrDBNil):
		return handler.DatastoreError(c)
	default:
		return handler.InternalError(c, err)
	}
}
