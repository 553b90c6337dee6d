package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/guildgate/guildgate/internal/access"
	banctl "github.com/guildgate/guildgate/internal/db/controller/ban"
	groupctl "github.com/guildgate/guildgate/internal/db/controller/group"
	"github.com/guildgate/guildgate/internal/db/controller/invite"
	"github.com/guildgate/guildgate/internal/db/controller/joinrequest"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
)

// SendError maps an engine error to the JSON error response the API
// contract promises: permission denials become 403, missing records 404,
// stale transitions and conflicts 409, malformed input 400.
func SendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, access.ErrPermissionDenied),
		errors.Is(err, access.ErrJoinClosed),
		errors.Is(err, access.ErrCannotBanAdmin):
		status = fiber.StatusForbidden

	case errors.Is(err, groupctl.ErrGroupNotFound),
		errors.Is(err, membership.ErrMembershipNotFound),
		errors.Is(err, joinrequest.ErrJoinRequestNotFound),
		errors.Is(err, invite.ErrInviteNotFound),
		errors.Is(err, banctl.ErrBanNotFound):
		status = fiber.StatusNotFound

	case errors.Is(err, access.ErrInvalidState),
		errors.Is(err, access.ErrOwnerCannotLeave),
		errors.Is(err, access.ErrOwnerCannotBeTarget),
		errors.Is(err, joinrequest.ErrNotPending),
		errors.Is(err, invite.ErrInviteExhausted),
		errors.Is(err, access.ErrInviteExpired),
		errors.Is(err, membership.ErrOwnerExists):
		status = fiber.StatusConflict

	case errors.Is(err, access.ErrValidation),
		errors.Is(err, membership.ErrInvalidRole),
		errors.Is(err, groupctl.ErrGroupNameEmpty),
		errors.Is(err, groupctl.ErrTooManyTags),
		errors.Is(err, groupctl.ErrTagTooLong),
		errors.Is(err, groupctl.ErrInvalidSetting):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
