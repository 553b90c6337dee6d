package models

import "time"

// GroupInvite is an invite code granting direct membership in a group.
// Redeeming a valid code creates a member-role membership regardless of the
// group's join policy; it is the only self-service path into an invite_only
// group. Codes may carry an expiry time and a usage cap.
type GroupInvite struct {
	// ID is the unique identifier for the invite.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the group this invite admits into.
	GroupID uint `gorm:"not null;index"`
	// Code is the random invite code handed to prospective members.
	Code string `gorm:"unique;size:32;not null"`
	// ExpiresAt is when the code stops working; nil means no expiry.
	ExpiresAt *time.Time
	// MaxUses caps redemptions; zero means unlimited.
	MaxUses int `gorm:"default:0"`
	// Uses counts successful redemptions. Incremented with a conditional
	// update so the cap holds under concurrent redemptions.
	Uses int `gorm:"default:0"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, its invites are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedBy is the member who created the invite.
	CreatedBy uint64 `gorm:"not null"`
	// CreatedAt is the timestamp when the invite was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupInvite model.
// This overrides GORM's default pluralized table naming.
func (GroupInvite) TableName() string {
	return "group_invites"
}
