package group

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/guildgate/guildgate/internal/web/handler"
	"github.com/guildgate/guildgate/internal/web/middleware/auth"
)

// joinInput is the optional request body for joining a group.
type joinInput struct {
	Message string `json:"message" validate:"max=500"`
}

// requestID parses the :rid route parameter.
func requestID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("rid"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid request id")
	}

	return id, nil
}

// Join runs the self-service join path for the caller. The response carries
// the outcome: joined, pending, already_member or already_pending.
func (s *Service) Join(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	var input joinInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		if err := s.validator.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	outcome, err := s.engine.RequestJoin(id, actor.ID, input.Message)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(fiber.Map{"outcome": outcome})
}

// CancelJoin withdraws the caller's pending join request. Cancelling when
// nothing is pending succeeds with no effect.
func (s *Service) CancelJoin(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.CancelJoinRequest(id, actor.ID); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Leave removes the caller's own membership.
func (s *Service) Leave(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.LeaveGroup(id, actor.ID); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListRequests returns the group's pending join requests, oldest first.
func (s *Service) ListRequests(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	requests, err := s.engine.ListPendingJoinRequests(id, actor.ID)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(requests)
}

// ApproveRequest approves a pending join request and creates the membership.
func (s *Service) ApproveRequest(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	rid, err := requestID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.ApproveJoinRequest(id, rid, actor.ID); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RejectRequest rejects a pending join request.
func (s *Service) RejectRequest(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return err
	}

	rid, err := requestID(c)
	if err != nil {
		return err
	}

	actor := auth.Actor(c)

	if err := s.engine.RejectJoinRequest(id, rid, actor.ID); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
