// Package group provides CRUD operations for community groups.
package group

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupNameEmpty is returned when attempting to create/update a group with an empty name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
	// ErrTooManyTags is returned when a group carries more than MaxGroupTags tags.
	ErrTooManyTags = errors.New("group tag count exceeds limit")
	// ErrTagTooLong is returned when a single tag exceeds MaxGroupTagLength characters.
	ErrTagTooLong = errors.New("group tag exceeds length limit")
	// ErrInvalidSetting is returned when a settings enum holds an unknown value.
	ErrInvalidSetting = errors.New("invalid group setting value")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// validate checks the group's name, tag set and settings enums.
func validate(g *models.Group) error {
	if g.Name == "" {
		return ErrGroupNameEmpty
	}

	tags := g.TagList()
	if len(tags) > models.MaxGroupTags {
		return fmt.Errorf("%w: %d tags", ErrTooManyTags, len(tags))
	}

	for _, tag := range tags {
		if len(tag) > models.MaxGroupTagLength {
			return fmt.Errorf("%w: %q", ErrTagTooLong, tag)
		}
	}

	switch g.Type {
	case models.GroupTypePublic, models.GroupTypePrivate, models.GroupTypeSecret:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidSetting, g.Type)
	}

	switch g.JoinApproval {
	case models.JoinApprovalAnyone, models.JoinApprovalAdmin, models.JoinApprovalInviteOnly:
	default:
		return fmt.Errorf("%w: joinApproval %q", ErrInvalidSetting, g.JoinApproval)
	}

	switch g.PostPermissions {
	case models.PostPolicyAllMembers, models.PostPolicyModeratorsAndAdmins, models.PostPolicyAdminsOnly:
	default:
		return fmt.Errorf("%w: postPermissions %q", ErrInvalidSetting, g.PostPermissions)
	}

	switch g.CommentPermissions {
	case models.CommentPolicyAllMembers, models.CommentPolicyMembersOnly, models.CommentPolicyAdminsOnly:
	default:
		return fmt.Errorf("%w: commentPermissions %q", ErrInvalidSetting, g.CommentPermissions)
	}

	return nil
}

// Get retrieves a group by its ID.
func Get(db *gorm.DB, id uint) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var g models.Group
	result := db.First(&g, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &g, nil
}

// Create creates a new group and its owner membership in one transaction.
// The creator becomes the sole owner; ownership never transfers.
func Create(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}
	if err := validate(g); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		owner := models.Membership{
			GroupID: g.ID,
			UserID:  g.CreatedBy,
			Role:    models.RoleOwner,
		}

		return tx.Create(&owner).Error
	})
}

// UpdateSettings persists changed group fields. The owner membership and
// CreatedBy are never touched here.
func UpdateSettings(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}
	if err := validate(g); err != nil {
		return err
	}

	result := db.Model(&models.Group{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
		"name":                g.Name,
		"description":         g.Description,
		"tags":                g.Tags,
		"location":            g.Location,
		"type":                g.Type,
		"join_approval":       g.JoinApproval,
		"post_permissions":    g.PostPermissions,
		"comment_permissions": g.CommentPermissions,
		"allow_member_invites": g.AllowMemberInvites,
		"show_member_list":     g.ShowMemberList,
		"searchable":           g.Searchable,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// Delete deletes a group by ID. Memberships, join requests and invites are
// removed by the CASCADE constraints.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Group{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
