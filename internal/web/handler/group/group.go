// Package group provides the JSON API handlers for groups: CRUD, the join
// workflow, member management, invites and permission probes.
package group

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/access"
	"github.com/guildgate/guildgate/internal/config"
	"github.com/guildgate/guildgate/internal/db/models"
	"github.com/guildgate/guildgate/internal/web/handler"
	"github.com/guildgate/guildgate/internal/web/middleware/auth"
)

const (
	// Path is the base path for group API routes.
	Path = handler.APIPath + "/groups"

	// ModlogDefaultLimit caps moderation log responses.
	ModlogDefaultLimit = 100
)

// formInput is the request body for creating or updating a group.
type formInput struct {
	Name               string   `json:"name" validate:"required,max=100"`
	Description        string   `json:"description" validate:"max=500"`
	Tags               []string `json:"tags" validate:"max=10,dive,max=20"`
	Location           string   `json:"location" validate:"max=100"`
	Type               string   `json:"type" validate:"omitempty,oneof=public private secret"`
	JoinApproval       string   `json:"join_approval" validate:"omitempty,oneof=anyone admin_approval invite_only"`
	PostPermissions    string   `json:"post_permissions" validate:"omitempty,oneof=all_members moderators_and_admins admins_only"`
	CommentPermissions string   `json:"comment_permissions" validate:"omitempty,oneof=all_members members_only admins_only"`
	AllowMemberInvites bool     `json:"allow_member_invites"`
	ShowMemberList     *bool    `json:"show_member_list"`
	Searchable         *bool    `json:"searchable"`
}

// Service provides the group API handlers.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	engine    *access.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *access.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.engine = engine
	s.validator = validator.New()

	app.Post(Path, s.Create)
	app.Get(Path+"/:id", s.Get)
	app.Put(Path+"/:id", s.Update)
	app.Delete(Path+"/:id", s.Delete)

	app.Post(Path+"/:id/join", s.Join)
	app.Post(Path+"/:id/join/cancel", s.CancelJoin)
	app.Post(Path+"/:id/leave", s.Leave)

	app.Get(Path+"/:id/requests", s.ListRequests)
	app.Post(Path+"/:id/requests/:rid/approve", s.ApproveRequest)
	app.Post(Path+"/:id/requests/:rid/reject", s.RejectRequest)

	app.Get(Path+"/:id/members", s.ListMembers)
	app.Put(Path+"/:id/members/:uid/role", s.ChangeRole)
	app.Delete(Path+"/:id/members/:uid", s.RemoveMember)
	app.Post(Path+"/:id/members/:uid/ban", s.BanMember)

	app.Get(Path+"/:id/permissions/:action", s.Probe)
	app.Get(Path+"/:id/can-post", s.CanPost)
	app.Get(Path+"/:id/can-comment", s.CanComment)
	app.Get(Path+"/:id/modlog", s.Modlog)

	app.Post(Path+"/:id/invites", s.CreateInvite)
	app.Get(Path+"/:id/invites", s.ListInvites)
	app.Post(handler.APIPath+"/invites/:code/redeem", s.RedeemInvite)
}

// groupID parses the :id route parameter.
func groupID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid group id")
	}

	return uint(id), nil
}

// applyInput copies the request body onto a group model, keeping the
// defaults for omitted enum fields.
func applyInput(g *models.Group, input *formInput) {
	g.Name = input.Name
	g.Description = input.Description
	g.SetTags(input.Tags)
	g.Location = input.Location

	if input.Type != "" {
		g.Type = models.GroupType(input.Type)
	}
	if input.JoinApproval != "" {
		g.JoinApproval = models.JoinApproval(input.JoinApproval)
	}
	if input.PostPermissions != "" {
		g.PostPermissions = models.PostPolicy(input.PostPermissions)
	}
	if input.CommentPermissions != "" {
		g.CommentPermissions = models.CommentPolicy(input.CommentPermissions)
	}

	g.AllowMemberInvites = input.AllowMemberInvites
	if input.ShowMemberList != nil {
		g.ShowMemberList = *input.ShowMemberList
	}
	if input.Searchable != nil {
		g.Searchable = *input.Searchable
	}
}

// Create creates a group; the caller becomes its owner.
func (s *Service) Create(c *fiber.Ctx) error {
	actor := auth.Actor(c)

	var input formInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := s.validator.Struct(input); err != nil {
		log.Warn().Err(err).Msg("validation failed for create group")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g := models.Group{
		Type:               models.GroupTypePublic,
		JoinApproval:       models.JoinApprovalAnyone,
		PostPermissions:    models.PostPolicyAllMembers,
		CommentPermissions: models.CommentPolicyAllMembers,
		ShowMemberList:     true,
		Searchable:         true,
		CreatedBy:          actor.ID,
	}
	applyInput(&g, &input)

	if err := s.engine.CreateGroup(&g); err != nil {
		return handler.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

// Get returns a single group.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	g, err := s.engine.GetGroup(id)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(g)
}

// Update changes group settings; requires the change_settings capability.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input formInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.engine.GetGroup(id)
	if err != nil {
		return handler.SendError(c, err)
	}

	applyInput(g, &input)

	if err := s.engine.UpdateGroupSettings(id, actor.ID, g); err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(g)
}

// Delete removes a group; requires the delete_group capability.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.DeleteGroup(id, actor.ID); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Probe answers a single capability-matrix question for the caller.
func (s *Service) Probe(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)
	action := access.Action(c.Params("action"))

	return c.JSON(fiber.Map{
		"action":  action,
		"allowed": s.engine.HasPermission(id, actor.ID, action),
	})
}

// CanPost answers the posting gate for the caller: the platform ban check
// runs first, then the group's post policy.
func (s *Service) CanPost(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if s.engine.IsEffectivelyBanned(actor.ID) {
		return c.JSON(fiber.Map{"allowed": false, "reason": "banned"})
	}

	return c.JSON(fiber.Map{"allowed": s.engine.CanPost(id, actor.ID)})
}

// CanComment answers the commenting gate for the caller, ban check first.
func (s *Service) CanComment(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if s.engine.IsEffectivelyBanned(actor.ID) {
		return c.JSON(fiber.Map{"allowed": false, "reason": "banned"})
	}

	return c.JSON(fiber.Map{"allowed": s.engine.CanComment(id, actor.ID)})
}

// Modlog returns the group's moderation log for moderators and above.
func (s *Service) Modlog(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	entries, err := s.engine.ModerationLog(id, actor.ID, ModlogDefaultLimit)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(entries)
}
