package group

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/guildgate/guildgate/internal/web/handler"
	"github.com/guildgate/guildgate/internal/web/middleware/auth"
)

// inviteInput is the request body for creating an invite code.
type inviteInput struct {
	ExpiresInMinutes *int `json:"expires_in_minutes" validate:"omitempty,gt=0"`
	MaxUses          int  `json:"max_uses" validate:"gte=0"`
}

// CreateInvite creates an invite code for the group.
func (s *Service) CreateInvite(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input inviteInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		if err := s.validator.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	var expiresAt *time.Time
	if input.ExpiresInMinutes != nil {
		t := time.Now().Add(time.Duration(*input.ExpiresInMinutes) * time.Minute)
		expiresAt = &t
	}

	inv, err := s.engine.CreateInvite(id, actor.ID, expiresAt, input.MaxUses)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(inv)
}

// ListInvites returns the group's invite codes.
func (s *Service) ListInvites(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	invites, err := s.engine.ListInvites(id, actor.ID)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(invites)
}

// RedeemInvite exchanges an invite code for a membership.
func (s *Service) RedeemInvite(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invite code")
	}

	actor := auth.Actor(c)

	outcome, err := s.engine.RedeemInvite(code, actor.ID)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(fiber.Map{"outcome": outcome})
}
