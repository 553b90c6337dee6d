// Package modlog provides storage operations for the per-group moderation log.
package modlog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Append writes a new moderation log entry. Entries are append-only.
func Append(db *gorm.DB, entry *models.ModerationLog) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(entry).Error
}

// ListByGroup retrieves the moderation log of a group, newest first.
func ListByGroup(db *gorm.DB, groupID uint, limit int) ([]models.ModerationLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Where("group_id = ?", groupID).Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var entries []models.ModerationLog
	result := tx.Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
