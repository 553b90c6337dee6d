// Package invite provides storage operations for group invite codes.
package invite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

var (
	// ErrInviteNotFound is returned when an invite code does not exist.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteExhausted is returned when an invite's usage cap is reached.
	ErrInviteExhausted = errors.New("invite usage limit reached")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create inserts a new invite.
func Create(db *gorm.DB, inv *models.GroupInvite) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(inv).Error
}

// GetByCode retrieves an invite by its code.
func GetByCode(db *gorm.DB, code string) (*models.GroupInvite, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var inv models.GroupInvite
	result := db.Where("code = ?", code).First(&inv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, result.Error
	}

	return &inv, nil
}

// ConsumeUse atomically increments the usage counter while the cap holds.
// The guard keeps the cap honest under concurrent redemptions: the loser
// gets ErrInviteExhausted.
func ConsumeUse(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.GroupInvite{}).
		Where("id = ? AND (max_uses = 0 OR uses < max_uses)", id).
		Update("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteExhausted
	}

	return nil
}

// ListByGroup retrieves all invites of a group.
func ListByGroup(db *gorm.DB, groupID uint) ([]models.GroupInvite, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var invites []models.GroupInvite
	result := db.Where("group_id = ?", groupID).Order("created_at DESC").Find(&invites)
	if result.Error != nil {
		return nil, result.Error
	}

	return invites, nil
}
