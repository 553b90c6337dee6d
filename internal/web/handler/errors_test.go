package handler

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgate/guildgate/internal/access"
	banctl "github.com/guildgate/guildgate/internal/db/controller/ban"
	groupctl "github.com/guildgate/guildgate/internal/db/controller/group"
	"github.com/guildgate/guildgate/internal/db/controller/invite"
	"github.com/guildgate/guildgate/internal/db/controller/joinrequest"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
)

func TestSendError(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "permission denied",
			err:            &access.PermissionDeniedError{Action: "delete_group", Role: "member"},
			expectedStatus: fiber.StatusForbidden,
		},
		{
			name:           "join closed",
			err:            access.ErrJoinClosed,
			expectedStatus: fiber.StatusForbidden,
		},
		{
			name:           "admin ban target",
			err:            access.ErrCannotBanAdmin,
			expectedStatus: fiber.StatusForbidden,
		},
		{
			name:           "group not found",
			err:            groupctl.ErrGroupNotFound,
			expectedStatus: fiber.StatusNotFound,
		},
		{
			name:           "membership not found",
			err:            membership.ErrMembershipNotFound,
			expectedStatus: fiber.StatusNotFound,
		},
		{
			name:           "invite not found",
			err:            invite.ErrInviteNotFound,
			expectedStatus: fiber.StatusNotFound,
		},
		{
			name:           "ban not found",
			err:            banctl.ErrBanNotFound,
			expectedStatus: fiber.StatusNotFound,
		},
		{
			name:           "stale decision",
			err:            joinrequest.ErrNotPending,
			expectedStatus: fiber.StatusConflict,
		},
		{
			name:           "owner cannot leave",
			err:            access.ErrOwnerCannotLeave,
			expectedStatus: fiber.StatusConflict,
		},
		{
			name:           "invite exhausted",
			err:            invite.ErrInviteExhausted,
			expectedStatus: fiber.StatusConflict,
		},
		{
			name:           "invite expired",
			err:            access.ErrInviteExpired,
			expectedStatus: fiber.StatusConflict,
		},
		{
			name:           "empty ban reason",
			err:            access.ErrBanReasonEmpty,
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "invalid role",
			err:            membership.ErrInvalidRole,
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "unexpected error",
			err:            errors.New("boom"),
			expectedStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return SendError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}
