package access

import (
	"errors"
	"fmt"

	"github.com/guildgate/guildgate/internal/db/models"
)

var (
	// ErrInvalidState is returned when a transition targets a request or
	// membership that is not in the required source state.
	ErrInvalidState = errors.New("invalid state for requested transition")

	// ErrOwnerCannotLeave is returned when the group owner attempts to leave.
	// No ownership transfer exists to fill the vacancy.
	ErrOwnerCannotLeave = fmt.Errorf("%w: owner cannot leave the group", ErrInvalidState)

	// ErrOwnerCannotBeTarget is returned when a removal, ban or role change
	// targets the group owner.
	ErrOwnerCannotBeTarget = fmt.Errorf("%w: group owner cannot be targeted", ErrInvalidState)

	// ErrJoinClosed is returned when a user self-requests to join an
	// invite-only group.
	ErrJoinClosed = errors.New("group does not accept join requests")

	// ErrPermissionDenied is the base error every PermissionDeniedError
	// matches via errors.Is.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation is the base error for malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrBanReasonEmpty is returned when a ban is issued without a reason.
	ErrBanReasonEmpty = fmt.Errorf("%w: ban reason cannot be empty", ErrValidation)

	// ErrBanDurationInvalid is returned when a ban duration is zero or negative.
	ErrBanDurationInvalid = fmt.Errorf("%w: ban duration must be positive", ErrValidation)

	// ErrCannotBanAdmin is returned when a ban targets a platform admin.
	ErrCannotBanAdmin = errors.New("platform admins cannot be banned")

	// ErrInviteExpired is returned when redeeming an invite past its expiry.
	ErrInviteExpired = errors.New("invite has expired")
)

// PermissionDeniedError carries the denied action token and the actor's
// resolved role for diagnostics. It matches ErrPermissionDenied with
// errors.Is.
type PermissionDeniedError struct {
	// Action is the denied action token.
	Action Action
	// Role is the actor's resolved role; empty when the actor is not a member.
	Role models.Role
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("permission denied: action %q requires membership", e.Action)
	}

	return fmt.Sprintf("permission denied: action %q not allowed for role %q", e.Action, e.Role)
}

// Is lets errors.Is match any PermissionDeniedError against ErrPermissionDenied.
func (e *PermissionDeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// denied builds a PermissionDeniedError for the given action and role.
func denied(action Action, role models.Role) error {
	return &PermissionDeniedError{Action: action, Role: role}
}
