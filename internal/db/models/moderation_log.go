package models

import "time"

// ModerationLog records a moderation action taken inside a group: member
// removals, group bans, join-request decisions and role changes. Rows are
// append-only audit data and are never updated.
type ModerationLog struct {
	// ID is the unique identifier for the log entry.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the group the action happened in.
	GroupID uint `gorm:"not null;index"`
	// ActorID is the user who performed the action.
	ActorID uint64 `gorm:"not null"`
	// TargetID is the user the action was applied to (zero when not applicable).
	TargetID uint64
	// Action is the action token, e.g. "remove_member" or "approve_join_request".
	Action string `gorm:"size:50;not null"`
	// Reason is an optional human-readable reason.
	Reason string `gorm:"size:500"`
	// CreatedAt is the timestamp when the entry was written (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the ModerationLog model.
// This overrides GORM's default pluralized table naming.
func (ModerationLog) TableName() string {
	return "moderation_log"
}
