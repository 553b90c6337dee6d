// Package models contains database model definitions.
package models

import (
	"strings"
	"time"
)

// GroupType controls the visibility of a group.
type GroupType string

const (
	// GroupTypePublic groups are visible and discoverable by everyone.
	GroupTypePublic GroupType = "public"
	// GroupTypePrivate groups are discoverable but content is member-only.
	GroupTypePrivate GroupType = "private"
	// GroupTypeSecret groups are hidden from discovery entirely.
	GroupTypeSecret GroupType = "secret"
)

// JoinApproval controls how a user becomes a member of a group.
type JoinApproval string

const (
	// JoinApprovalAnyone lets any user join directly without review.
	JoinApprovalAnyone JoinApproval = "anyone"
	// JoinApprovalAdmin requires a join request approved by a moderator or above.
	JoinApprovalAdmin JoinApproval = "admin_approval"
	// JoinApprovalInviteOnly disables self-service joining; an invite code is the
	// only way in.
	JoinApprovalInviteOnly JoinApproval = "invite_only"
)

// PostPolicy controls which members may create posts in a group.
type PostPolicy string

const (
	// PostPolicyAllMembers allows every member to post.
	PostPolicyAllMembers PostPolicy = "all_members"
	// PostPolicyModeratorsAndAdmins restricts posting to moderators and above.
	PostPolicyModeratorsAndAdmins PostPolicy = "moderators_and_admins"
	// PostPolicyAdminsOnly restricts posting to admins and the owner.
	PostPolicyAdminsOnly PostPolicy = "admins_only"
)

// CommentPolicy controls which members may comment in a group.
type CommentPolicy string

const (
	// CommentPolicyAllMembers allows every member to comment.
	CommentPolicyAllMembers CommentPolicy = "all_members"
	// CommentPolicyMembersOnly allows every member to comment.
	// Behaviorally identical to CommentPolicyAllMembers; kept as a distinct
	// value because group settings persist it. See the access package.
	CommentPolicyMembersOnly CommentPolicy = "members_only"
	// CommentPolicyAdminsOnly restricts commenting to admins and the owner.
	CommentPolicyAdminsOnly CommentPolicy = "admins_only"
)

const (
	// MaxGroupTags is the maximum number of tags a group may carry.
	MaxGroupTags = 10
	// MaxGroupTagLength is the maximum length of a single group tag.
	MaxGroupTagLength = 20

	// tagSeparator joins the tag set into a single column value.
	tagSeparator = ","
)

// Group represents a community group. A group is owned exclusively by its
// creator; ownership never transfers. The embedded settings fields control
// visibility, how users join, and who may post or comment.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:500"`
	// Tags is the serialized tag set (at most MaxGroupTags tags of at most
	// MaxGroupTagLength characters each). Use TagList and SetTags.
	Tags string `gorm:"size:255"`
	// Location is a free-form location label for the group.
	Location string `gorm:"size:100"`
	// Type is the group visibility (public, private or secret).
	Type GroupType `gorm:"type:varchar(20);not null;default:'public'"`
	// JoinApproval is the join policy (anyone, admin_approval or invite_only).
	JoinApproval JoinApproval `gorm:"type:varchar(20);not null;default:'anyone'"`
	// PostPermissions controls who may post (all_members, moderators_and_admins or admins_only).
	PostPermissions PostPolicy `gorm:"type:varchar(30);not null;default:'all_members'"`
	// CommentPermissions controls who may comment (all_members, members_only or admins_only).
	CommentPermissions CommentPolicy `gorm:"type:varchar(30);not null;default:'all_members'"`
	// AllowMemberInvites lets plain members create invite codes.
	AllowMemberInvites bool `gorm:"default:false"`
	// ShowMemberList exposes the member list to non-moderators.
	ShowMemberList bool `gorm:"default:true"`
	// Searchable includes the group in search results.
	Searchable bool `gorm:"default:true"`
	// CreatedBy is the user ID of the creator, who holds the owner membership.
	CreatedBy uint64 `gorm:"not null"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}

// TagList returns the group's tags as a slice.
func (g *Group) TagList() []string {
	if g.Tags == "" {
		return nil
	}

	return strings.Split(g.Tags, tagSeparator)
}

// SetTags serializes the given tags into the Tags column.
// Validation of tag count and length happens in the group controller.
func (g *Group) SetTags(tags []string) {
	g.Tags = strings.Join(tags, tagSeparator)
}
