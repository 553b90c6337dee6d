package access

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	groupctl "github.com/guildgate/guildgate/internal/db/controller/group"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/controller/modlog"
	"github.com/guildgate/guildgate/internal/db/models"
)

// Service is the access-control facade. It resolves the actor's role and
// ban status, consults the capability matrix and either performs the
// requested transition or returns a decision.
//
// Read predicates (HasPermission, CanPost, CanComment, IsEffectivelyBanned)
// never error: any ambiguity resolves to a deny, since callers use them as
// gates. Mutating operations return explicit errors per the taxonomy in
// the errors file.
type Service struct {
	db    *gorm.DB
	clock Clock
}

// NewService creates a new access service using the system clock.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, clock: SystemClock}
}

// NewServiceWithClock creates a new access service with the given clock.
// Used by tests to pin time for ban and invite expiry.
func NewServiceWithClock(db *gorm.DB, clock Clock) *Service {
	return &Service{db: db, clock: clock}
}

// roleOf resolves the actor's role in a group. The second return is false
// when the user has no membership or the lookup failed; permission checks
// treat both as "no role" and deny.
func (s *Service) roleOf(db *gorm.DB, groupID uint, userID uint64) (models.Role, bool) {
	m, err := membership.Get(db, groupID, userID)
	if err != nil {
		if !errors.Is(err, membership.ErrMembershipNotFound) {
			log.Error().Err(err).Uint("group_id", groupID).Uint64("user_id", userID).
				Msg("failed to resolve membership role")
		}

		return "", false
	}

	return m.Role, true
}

// HasPermission checks the capability matrix for the actor's resolved role.
// Non-members are denied every action.
func (s *Service) HasPermission(groupID uint, userID uint64, action Action) bool {
	role, ok := s.roleOf(s.db, groupID, userID)
	if !ok {
		observeDecision(action, false)
		return false
	}

	allowed := Allows(role, action)
	observeDecision(action, allowed)

	return allowed
}

// CanPost reports whether the user may create posts in the group, combining
// membership role with the group's post policy. It does not consult the
// platform ban state: content entry points must check IsEffectivelyBanned
// first.
func (s *Service) CanPost(groupID uint, userID uint64) bool {
	g, err := groupctl.Get(s.db, groupID)
	if err != nil {
		return false
	}

	role, ok := s.roleOf(s.db, groupID, userID)
	if !ok {
		return false
	}

	if role == models.RoleOwner || role == models.RoleAdmin {
		return true
	}

	switch g.PostPermissions {
	case models.PostPolicyAdminsOnly:
		return false
	case models.PostPolicyModeratorsAndAdmins:
		return role == models.RoleModerator
	case models.PostPolicyAllMembers:
		return true
	default:
		return false
	}
}

// CanComment reports whether the user may comment in the group.
// The all_members and members_only policies are behaviorally identical:
// both require any membership. Like CanPost it ignores the platform ban
// state; callers gate on IsEffectivelyBanned first.
func (s *Service) CanComment(groupID uint, userID uint64) bool {
	g, err := groupctl.Get(s.db, groupID)
	if err != nil {
		return false
	}

	role, ok := s.roleOf(s.db, groupID, userID)
	if !ok {
		return false
	}

	if role == models.RoleOwner || role == models.RoleAdmin {
		return true
	}

	switch g.CommentPermissions {
	case models.CommentPolicyAdminsOnly:
		return false
	case models.CommentPolicyAllMembers, models.CommentPolicyMembersOnly:
		return true
	default:
		return false
	}
}

// canManageMember encodes the asymmetric member-management rules:
//   - only the owner may promote to admin or change an admin's role
//   - admins and the owner may move members between member and moderator
//   - removal and ban require moderator or above, and an admin target
//     requires the owner as actor
//   - the owner is never a valid target
func canManageMember(actor, target models.Role, action Action) bool {
	if target == models.RoleOwner {
		return false
	}

	switch action {
	case ActionPromoteToAdmin:
		return actor == models.RoleOwner
	case ActionPromoteToModerator, ActionDemoteModerator:
		if target == models.RoleAdmin {
			return actor == models.RoleOwner
		}

		return actor.Rank() >= models.RoleAdmin.Rank()
	case ActionRemoveMember, ActionBanMember:
		if !Allows(actor, action) {
			return false
		}

		return target != models.RoleAdmin || actor == models.RoleOwner
	default:
		return false
	}
}

// roleChangeAction maps the requested new role to the action token that
// governs it in canManageMember.
func roleChangeAction(newRole models.Role) Action {
	switch {
	case newRole == models.RoleAdmin:
		return ActionPromoteToAdmin
	case newRole == models.RoleModerator:
		return ActionPromoteToModerator
	default:
		return ActionDemoteModerator
	}
}

// ChangeMemberRole changes the target's role inside a group, enforcing the
// asymmetric management rules. Assigning the owner role is always rejected.
func (s *Service) ChangeMemberRole(groupID uint, actorID, targetID uint64, newRole models.Role) error {
	if newRole == models.RoleOwner {
		return ErrOwnerCannotBeTarget
	}
	if !newRole.Valid() {
		return membership.ErrInvalidRole
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		actorRole, ok := s.roleOf(tx, groupID, actorID)
		if !ok {
			return denied(ActionChangeRole, "")
		}

		target, err := membership.Get(tx, groupID, targetID)
		if err != nil {
			return err
		}

		if target.Role == models.RoleOwner {
			return ErrOwnerCannotBeTarget
		}

		action := roleChangeAction(newRole)
		if !canManageMember(actorRole, target.Role, action) {
			return denied(action, actorRole)
		}

		if err := membership.UpdateRole(tx, groupID, targetID, newRole); err != nil {
			return err
		}

		return modlog.Append(tx, &models.ModerationLog{
			GroupID:  groupID,
			ActorID:  actorID,
			TargetID: targetID,
			Action:   string(ActionChangeRole),
			Reason:   string(newRole),
		})
	})
}

// RemoveMember removes the target from the group. Moderators and above may
// remove plain members and moderators; only the owner may remove an admin;
// the owner is never a valid target.
func (s *Service) RemoveMember(groupID uint, actorID, targetID uint64) error {
	return s.removeMember(groupID, actorID, targetID, ActionRemoveMember, "")
}

// BanFromGroup removes the target like RemoveMember and records the ban in
// the moderation log. Group bans share the removal permission rules.
func (s *Service) BanFromGroup(groupID uint, actorID, targetID uint64, reason string) error {
	return s.removeMember(groupID, actorID, targetID, ActionBanMember, reason)
}

func (s *Service) removeMember(groupID uint, actorID, targetID uint64, action Action, reason string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		actorRole, ok := s.roleOf(tx, groupID, actorID)
		if !ok {
			return denied(action, "")
		}

		target, err := membership.Get(tx, groupID, targetID)
		if err != nil {
			return err
		}

		if target.Role == models.RoleOwner {
			return ErrOwnerCannotBeTarget
		}

		if !canManageMember(actorRole, target.Role, action) {
			return denied(action, actorRole)
		}

		if err := membership.Remove(tx, groupID, targetID); err != nil {
			return err
		}

		return modlog.Append(tx, &models.ModerationLog{
			GroupID:  groupID,
			ActorID:  actorID,
			TargetID: targetID,
			Action:   string(action),
			Reason:   reason,
		})
	})
}

// LeaveGroup removes the user's own membership. The owner cannot leave:
// no ownership transfer exists to fill the vacancy.
func (s *Service) LeaveGroup(groupID uint, userID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		m, err := membership.Get(tx, groupID, userID)
		if err != nil {
			return err
		}

		if m.Role == models.RoleOwner {
			return ErrOwnerCannotLeave
		}

		return membership.Remove(tx, groupID, userID)
	})
}

// ListMembers returns the group's member list. When the group hides its
// member list, only moderators and above may read it; otherwise any member
// may.
func (s *Service) ListMembers(groupID uint, actorID uint64) ([]models.Membership, error) {
	g, err := groupctl.Get(s.db, groupID)
	if err != nil {
		return nil, err
	}

	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok {
		return nil, denied(ActionViewAnalytics, "")
	}

	if !g.ShowMemberList && role.Rank() < models.RoleModerator.Rank() {
		return nil, denied(ActionViewAnalytics, role)
	}

	return membership.List(s.db, groupID)
}

// ModerationLog returns the group's moderation log, newest first. Requires
// moderate_posts capability.
func (s *Service) ModerationLog(groupID uint, actorID uint64, limit int) ([]models.ModerationLog, error) {
	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok || !Allows(role, ActionModeratePosts) {
		return nil, denied(ActionModeratePosts, role)
	}

	return modlog.ListByGroup(s.db, groupID, limit)
}

// CreateGroup creates a new group; the creator becomes its sole owner.
func (s *Service) CreateGroup(g *models.Group) error {
	return groupctl.Create(s.db, g)
}

// GetGroup retrieves a group by ID.
func (s *Service) GetGroup(groupID uint) (*models.Group, error) {
	return groupctl.Get(s.db, groupID)
}

// UpdateGroupSettings applies new settings to a group. Requires the
// change_settings capability.
func (s *Service) UpdateGroupSettings(groupID uint, actorID uint64, g *models.Group) error {
	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok || !Allows(role, ActionChangeSettings) {
		return denied(ActionChangeSettings, role)
	}

	g.ID = groupID

	return groupctl.UpdateSettings(s.db, g)
}

// DeleteGroup deletes a group. Requires the delete_group capability.
func (s *Service) DeleteGroup(groupID uint, actorID uint64) error {
	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok || !Allows(role, ActionDeleteGroup) {
		return denied(ActionDeleteGroup, role)
	}

	return groupctl.Delete(s.db, groupID)
}
