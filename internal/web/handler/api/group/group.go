// Package group provides the JSON API handlers for groups, group members
// and the group switch operation.
package group

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/auth"
	"github.com/kajilog/kajilog/internal/config"
	groupctl "github.com/kajilog/kajilog/internal/db/controller/group"
	"github.com/kajilog/kajilog/internal/db/controller/membership"
	"github.com/kajilog/kajilog/internal/web/handler"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
)

const (
	// Path is the base path for the groups API.
	Path = handler.APIBasePath + "/groups"

	// RouteMe lists the memberships of the authenticated user.
	RouteMe = Path + "/me"
	// RouteCurrent reports the resolved group context of the request.
	RouteCurrent = Path + "/current"
	// RouteCurrentMembers lists the members of the selected group.
	RouteCurrentMembers = RouteCurrent + "/members"
	// RouteSwitch changes the selected group.
	RouteSwitch = Path + "/switch"
	// RouteByID addresses a single group.
	RouteByID = Path + "/:id"
	// RouteMembers addresses the member collection of a group.
	RouteMembers = Path + "/:id/members"
	// RouteMember addresses a single membership.
	RouteMember = Path + "/:groupId/members/:userId"
)

// Service provides the group API handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Fixed segments must be registered before the
// parameterized ":id" routes so /me, /current and /switch don't get captured
// as ids.
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

	app.Get(RouteMe, auth.RequireSession(), s.Me)
	app.Get(RouteCurrent, auth.RequireSession(), s.Current)
	app.Get(RouteCurrentMembers, auth.RequireSession(), auth.RequireGroup(db), s.CurrentMembers)
	app.Post(RouteSwitch, auth.RequireSession(), s.Switch)

	app.Get(RouteByID, s.Get)
	app.Put(RouteByID, s.Update)
	app.Delete(RouteByID, s.Delete)

	app.Get(RouteMembers, s.ListMembers)
	app.Post(RouteMembers, s.AddMember)
	app.Delete(RouteMember, s.RemoveMember)
}

type createInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	CreatedBy uint64 `json:"createdBy" validate:"required,gt=0"`
}

type updateInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// List returns all active (non-soft-deleted) groups.
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := groupctl.FindActive(s.db)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, groups, "Active groups retrieved successfully")
}

// Create creates a group; the creator is auto-added as admin member.
func (s *Service) Create(c *fiber.Ctx) error {
	var input createInput

	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "Invalid request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, "Name and createdBy are required")
	}

	g, err := groupctl.Create(s.db, input.Name, input.CreatedBy)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusCreated, g, "Group created successfully")
}

// Get returns a single active group.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseGroupID(c, "id")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	g, err := groupctl.FindByID(s.db, id)
	if err != nil {
		return s.translate(c, err)
	}

	if !g.Active() {
		return handler.NotFoundError(c, "Group not found")
	}

	return handler.JSONSuccess(c, fiber.StatusOK, g, "Group retrieved successfully")
}

// Update renames a group. Soft-deleted groups reject the update.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := parseGroupID(c, "id")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	var input updateInput

	if err := c.BodyParser(&input); err != nil {
		return handler.ValidationError(c, "Invalid request body")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.ValidationError(c, "Name is required")
	}

	g, err := groupctl.Update(s.db, id, input.Name)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, g, "Group updated successfully")
}

// Delete soft-deletes a group.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := parseGroupID(c, "id")
	if !ok {
		return handler.ValidationError(c, "Invalid group ID")
	}

	if err := groupctl.SoftDelete(s.db, id); err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true}, "Group deleted successfully")
}

// Me lists the memberships of the authenticated user, with group names.
func (s *Service) Me(c *fiber.Ctx) error {
	sessionData, ok := auth.SessionFromCtx(c)
	if !ok {
		return handler.AuthError(c, "")
	}

	members, err := membership.FindByUserID(s.db, sessionData.User.ID)
	if err != nil {
		return s.translate(c, err)
	}

	return handler.JSONSuccess(c, fiber.StatusOK, members, "User groups retrieved successfully")
}

// Current reports the resolved group context for this request: the verdict
// of combining the session, the selected-group cookie and the membership
// store. UI code uses this to render the group selector.
func (s *Service) Current(c *fiber.Ctx) error {
	sessionData, ok := auth.SessionFromCtx(c)
	if !ok {
		return handler.AuthError(c, "")
	}

	gctx, err := auth.ResolveGroupContext(s.db, sessionData.User.ID, c.Cookies(selectedgroup.CookieName))
	if err != nil {
		return s.translate(c, err)
	}

	data := fiber.Map{
		"status":  gctx.Verdict.String(),
		"groupId": gctx.GroupID,
	}

	if gctx.Verdict == auth.VerdictAuthorized {
		if g, errFind := groupctl.FindByID(s.db, gctx.GroupID); errFind == nil {
			data["groupName"] = g.Name
		}
	}

	return handler.JSONSuccess(c, fiber.StatusOK, data, "")
}

// parseGroupID reads a positive integer route parameter.
func parseGroupID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}

	return uint(id), true
}

// translate maps store errors to the HTTP taxonomy. Raw datastore errors
// never reach the client.
func (s *Service) translate(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, groupctl.ErrGroupNotFound):
		return handler.NotFoundError(c, "Group not found")
	case errors.Is(err, groupctl.ErrGroupDeleted):
		return handler.NotFoundError(c, "Cannot update deleted group")
	case errors.Is(err, groupctl.ErrGroupNameEmpty):
		return handler.ValidationError(c, "Name is required")
	case errors.Is(err, membership.ErrAlreadyMember):
		return handler.ConflictError(c, "User is already a member of this group")
	case errors.Is(err, membership.ErrInvalidRole):
		return handler.ValidationError(c, "Invalid membership role")
	case errors.Is(err, groupctl.ErrDBNil), errors.Is(err, membership.ErrDBNil):
		return handler.DatastoreError(c)
	default:
		return handler.InternalError(c, err)
	}
}
