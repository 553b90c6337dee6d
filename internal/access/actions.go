// Package access implements the community access-control engine: the role
// capability matrix, the join-request workflow and platform-wide user bans.
// Other subsystems ask it yes/no permission questions or request membership
// transitions; they never inspect roles or ban rows directly.
package access

import (
	"github.com/guildgate/guildgate/internal/db/models"
)

// Action tokens define the group-scoped actions in the capability matrix.
type Action string

const (
	// ActionChangeSettings allows editing group settings.
	ActionChangeSettings Action = "change_settings"
	// ActionPromoteToAdmin allows promoting a member to admin. The matrix
	// minimum is admin, but role-change rules tighten this to owner only.
	ActionPromoteToAdmin Action = "promote_to_admin"
	// ActionDeleteGroup allows deleting the group.
	ActionDeleteGroup Action = "delete_group"

	// ActionRemoveMember allows removing a member from the group.
	ActionRemoveMember Action = "remove_member"
	// ActionBanMember allows banning a member from the group.
	ActionBanMember Action = "ban_member"
	// ActionUnbanMember allows lifting a group ban.
	ActionUnbanMember Action = "unban_member"
	// ActionPromoteToModerator allows promoting a member to moderator.
	ActionPromoteToModerator Action = "promote_to_moderator"
	// ActionDemoteModerator allows demoting a moderator back to member.
	ActionDemoteModerator Action = "demote_moderator"
	// ActionApproveJoinRequest allows approving pending join requests.
	ActionApproveJoinRequest Action = "approve_join_request"
	// ActionRejectJoinRequest allows rejecting pending join requests.
	ActionRejectJoinRequest Action = "reject_join_request"
	// ActionModeratePosts allows general post moderation.
	ActionModeratePosts Action = "moderate_posts"
	// ActionEditPost allows editing posts.
	ActionEditPost Action = "edit_post"
	// ActionDeletePost allows deleting posts.
	ActionDeletePost Action = "delete_post"
	// ActionPinPost allows pinning posts.
	ActionPinPost Action = "pin_post"
	// ActionUnpinPost allows unpinning posts.
	ActionUnpinPost Action = "unpin_post"
	// ActionViewAnalytics allows viewing group analytics.
	ActionViewAnalytics Action = "view_analytics"

	// ActionChangeRole is the moderation-log token for role changes; it is
	// not part of the matrix because role changes follow the asymmetric
	// rules in canManageMember.
	ActionChangeRole Action = "change_role"
)

// minRank maps each action to the minimum role rank required.
// Actions missing from the map are denied for every role below owner.
var minRank = map[Action]int{
	ActionChangeSettings: 2,
	ActionPromoteToAdmin: 2,
	ActionDeleteGroup:    2,

	ActionRemoveMember:       1,
	ActionBanMember:          1,
	ActionUnbanMember:        1,
	ActionPromoteToModerator: 1,
	ActionDemoteModerator:    1,
	ActionApproveJoinRequest: 1,
	ActionRejectJoinRequest:  1,
	ActionModeratePosts:      1,
	ActionEditPost:           1,
	ActionDeletePost:         1,
	ActionPinPost:            1,
	ActionUnpinPost:          1,
	ActionViewAnalytics:      1,
}

// Allows is the pure capability matrix lookup. The owner is authorized for
// every action; unknown actions are denied (fail closed). It never errors.
func Allows(role models.Role, action Action) bool {
	if role == models.RoleOwner {
		return true
	}

	required, known := minRank[action]
	if !known {
		return false
	}

	return role.Rank() >= required
}
