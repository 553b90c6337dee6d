package group

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/guildgate/guildgate/internal/db/models"
	"github.com/guildgate/guildgate/internal/web/handler"
	"github.com/guildgate/guildgate/internal/web/middleware/auth"
)

// roleInput is the request body for a role change.
type roleInput struct {
	Role string `json:"role" validate:"required,oneof=member moderator admin"`
}

// banInput is the request body for a group ban.
type banInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

// targetID parses the :uid route parameter.
func targetID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("uid"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	return id, nil
}

// ListMembers returns the group's member list, subject to the group's
// member-list visibility setting.
func (s *Service) ListMembers(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	members, err := s.engine.ListMembers(id, actor.ID)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(members)
}

// ChangeRole changes a member's role.
func (s *Service) ChangeRole(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	uid, err := targetID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input roleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.engine.ChangeMemberRole(id, actor.ID, uid, models.Role(input.Role)); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveMember removes a member from the group.
func (s *Service) RemoveMember(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	uid, err := targetID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.RemoveMember(id, actor.ID, uid); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// BanMember removes a member and records the ban in the moderation log.
func (s *Service) BanMember(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	uid, err := targetID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input banInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
	}

	if err := s.engine.BanFromGroup(id, actor.ID, uid, input.Reason); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
