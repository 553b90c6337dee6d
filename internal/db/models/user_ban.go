package models

import "time"

// UserBan holds the platform-wide ban state for a single user.
// At most one row exists per user. The stored Banned flag alone is not
// authoritative: whether a user is currently banned is derived from the flag
// together with ExpiresAt against the current time. Expired rows are not
// swept; read paths recompute on every call.
type UserBan struct {
	// ID is the unique identifier for the ban row.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the banned user. One ban row per user.
	UserID uint64 `gorm:"not null;uniqueIndex"`
	// Banned is the raw stored flag. Use the access package's effective-ban
	// check instead of reading this directly.
	Banned bool `gorm:"not null;default:false"`
	// Reason is the moderator-supplied ban reason. Never empty while banned.
	Reason string `gorm:"size:500"`
	// BannedAt is the timestamp when the ban was issued.
	BannedAt time.Time
	// BannedBy is the platform admin who issued the ban.
	BannedBy uint64
	// ExpiresAt is when the ban lapses; nil means permanent.
	ExpiresAt *time.Time
	// UpdatedAt is the timestamp when the row was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserBan model.
// This overrides GORM's default pluralized table naming.
func (UserBan) TableName() string {
	return "user_bans"
}
