// Package ban provides the platform-admin API for platform-wide user bans.
package ban

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/access"
	"github.com/guildgate/guildgate/internal/config"
	"github.com/guildgate/guildgate/internal/web/handler"
	"github.com/guildgate/guildgate/internal/web/middleware/auth"
)

// Path is the base path for the admin ban routes.
const Path = handler.APIPath + "/admin/users"

// banInput is the request body for issuing a ban. A missing duration means
// the ban is permanent.
type banInput struct {
	Reason          string `json:"reason" validate:"required,max=500"`
	DurationMinutes *int   `json:"duration_minutes" validate:"omitempty,gt=0"`
}

// Service provides the admin ban handlers.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	engine    *access.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes. All of them sit behind the platform-admin gate.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *access.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.engine = engine
	s.validator = validator.New()

	admin := auth.RequireAdmin()

	app.Post(Path+"/:uid/ban", admin, s.Ban)
	app.Post(Path+"/:uid/unban", admin, s.Unban)
	app.Get(Path+"/:uid/ban", admin, s.Status)
}

func userID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("uid"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	return id, nil
}

// Ban issues a platform-wide ban against a user.
func (s *Service) Ban(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input banInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.engine.BanUser(actor.ID, uid, input.DurationMinutes, input.Reason); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Unban lifts a platform-wide ban. Lifting a ban that does not exist
// succeeds with no effect.
func (s *Service) Unban(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.UnbanUser(actor.ID, uid); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Status reports the user's current ban state together with the remaining
// minutes, -1 for a permanent ban.
func (s *Service) Status(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	resp := fiber.Map{
		"banned":            s.engine.IsEffectivelyBanned(uid),
		"remaining_minutes": s.engine.RemainingBanMinutes(uid),
	}

	if b := s.engine.BanState(uid); b != nil {
		resp["ban"] = b
	}

	return c.JSON(resp)
}
