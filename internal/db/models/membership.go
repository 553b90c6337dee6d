package models

import "time"

// Role is a membership role inside a single group.
type Role string

const (
	// RoleOwner is the group creator. Exactly one owner exists per group and
	// the role never transfers. Owners are authorized for every group action.
	RoleOwner Role = "owner"
	// RoleAdmin may change settings, promote members and delete the group.
	RoleAdmin Role = "admin"
	// RoleModerator may moderate content and process join requests.
	RoleModerator Role = "moderator"
	// RoleMember is a plain member with no management capability.
	RoleMember Role = "member"
)

// Rank orders roles for monotonic permission checks:
// owner(3) > admin(2) > moderator(1) > member(0).
// Unknown roles rank below member so permission checks fail closed.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleModerator:
		return 1
	case RoleMember:
		return 0
	default:
		return -1
	}
}

// Valid reports whether the role is one of the four known values.
func (r Role) Valid() bool {
	return r.Rank() >= 0
}

// Membership represents a user's membership in a group.
// The (group, user) pair is unique; a user holds at most one role per group.
// A membership is created when a join succeeds (directly, via approval, or
// via invite) and destroyed on leave, removal or group ban.
type Membership struct {
	// ID is the unique identifier for the membership.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the ID of the group.
	GroupID uint `gorm:"not null;uniqueIndex:idx_membership_group_user"`
	// UserID is the ID of the member.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_membership_group_user"`
	// Role is the member's role inside the group.
	Role Role `gorm:"type:varchar(20);not null;default:'member'"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, its memberships are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, their memberships are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the membership was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the membership was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Membership model.
// This overrides GORM's default pluralized table naming.
func (Membership) TableName() string {
	return "memberships"
}
