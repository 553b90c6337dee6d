// Package ban provides storage operations for platform-wide user bans.
package ban

import (
	"errors"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

const (
	userQueryPattern = "user_id = ?"
)

var (
	// ErrBanNotFound is returned when no ban row exists for a user.
	ErrBanNotFound = errors.New("ban not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByUser retrieves the ban row for a user.
func GetByUser(db *gorm.DB, userID uint64) (*models.UserBan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.UserBan
	result := db.Where(userQueryPattern, userID).First(&b)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBanNotFound
		}
		return nil, result.Error
	}

	return &b, nil
}

// Set creates or replaces the ban row for a user (upsert on the unique
// user index). A re-ban of an already banned user overwrites reason and
// expiry with the new values.
func Set(db *gorm.DB, b *models.UserBan) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserBan
		result := tx.Where(userQueryPattern, b.UserID).First(&existing)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(b).Error
		}
		if result.Error != nil {
			return result.Error
		}

		return tx.Model(&models.UserBan{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"banned":     b.Banned,
				"reason":     b.Reason,
				"banned_at":  b.BannedAt,
				"banned_by":  b.BannedBy,
				"expires_at": b.ExpiresAt,
			}).Error
	})
}

// Clear lifts the ban for a user. Clearing a user without a ban row is a
// no-op, keeping unban idempotent.
func Clear(db *gorm.DB, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.UserBan{}).
		Where(userQueryPattern, userID).
		Updates(map[string]interface{}{
			"banned":     false,
			"expires_at": nil,
		}).Error
}
