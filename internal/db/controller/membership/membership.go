// Package membership provides CRUD operations for group memberships.
package membership

import (
	"errors"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

const (
	pairQueryPattern = "group_id = ? AND user_id = ?"
)

var (
	// ErrMembershipNotFound is returned when a membership is not found.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrOwnerExists is returned when attempting to create a second owner for a group.
	ErrOwnerExists = errors.New("group already has an owner")
	// ErrInvalidRole is returned when a role is not one of the four known values.
	ErrInvalidRole = errors.New("invalid membership role")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the membership for a (group, user) pair.
func Get(db *gorm.DB, groupID uint, userID uint64) (*models.Membership, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.Membership
	result := db.Where(pairQueryPattern, groupID, userID).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, result.Error
	}

	return &m, nil
}

// Create inserts a new membership. A second owner for the same group is
// rejected; the unique (group, user) index rejects duplicate pairs under
// concurrent joins.
func Create(db *gorm.DB, m *models.Membership) error {
	if db == nil {
		return ErrDBNil
	}
	if !m.Role.Valid() {
		return ErrInvalidRole
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if m.Role == models.RoleOwner {
			var owners int64
			if err := tx.Model(&models.Membership{}).
				Where("group_id = ? AND role = ?", m.GroupID, models.RoleOwner).
				Count(&owners).Error; err != nil {
				return err
			}
			if owners > 0 {
				return ErrOwnerExists
			}
		}

		return tx.Create(m).Error
	})
}

// UpdateRole changes the role of an existing membership.
// Assigning the owner role is always rejected: the owner membership is
// created with the group and is immutable.
func UpdateRole(db *gorm.DB, groupID uint, userID uint64, role models.Role) error {
	if db == nil {
		return ErrDBNil
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	if role == models.RoleOwner {
		return ErrOwnerExists
	}

	result := db.Model(&models.Membership{}).
		Where(pairQueryPattern, groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// Remove deletes the membership for a (group, user) pair.
func Remove(db *gorm.DB, groupID uint, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(pairQueryPattern, groupID, userID).Delete(&models.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// List retrieves all memberships of a group.
func List(db *gorm.DB, groupID uint) ([]models.Membership, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var members []models.Membership
	result := db.Where("group_id = ?", groupID).Order("created_at ASC").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

// Count returns the number of members in a group.
func Count(db *gorm.DB, groupID uint) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Membership{}).Where("group_id = ?", groupID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
