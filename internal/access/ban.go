package access

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	banctl "github.com/guildgate/guildgate/internal/db/controller/ban"
	"github.com/guildgate/guildgate/internal/db/models"
)

// PermanentBan marks a ban without expiry when passed as duration.
const PermanentBan = -1

// BanUser issues a platform-wide ban. Platform-admin privilege of the actor
// is the calling layer's responsibility (bans are not group-scoped); the
// engine still refuses platform-admin targets and malformed input.
// A nil duration means permanent; otherwise the ban lapses after the given
// number of minutes.
func (s *Service) BanUser(actorID, targetID uint64, durationMinutes *int, reason string) error {
	if reason == "" {
		return ErrBanReasonEmpty
	}
	if durationMinutes != nil && *durationMinutes <= 0 {
		return ErrBanDurationInvalid
	}

	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return err
	}

	if target.Admin {
		return ErrCannotBanAdmin
	}

	now := s.clock.Now()

	b := models.UserBan{
		UserID:   targetID,
		Banned:   true,
		Reason:   reason,
		BannedAt: now,
		BannedBy: actorID,
	}

	if durationMinutes != nil {
		expires := now.Add(time.Duration(*durationMinutes) * time.Minute)
		b.ExpiresAt = &expires
	}

	if err := banctl.Set(s.db, &b); err != nil {
		return err
	}

	log.Info().Uint64("actor_id", actorID).Uint64("target_id", targetID).
		Str("reason", reason).Msg("user banned")

	return nil
}

// UnbanUser lifts a platform-wide ban. Unbanning a user who is not banned
// is a no-op; the operation is idempotent.
func (s *Service) UnbanUser(actorID, targetID uint64) error {
	if err := banctl.Clear(s.db, targetID); err != nil {
		return err
	}

	log.Info().Uint64("actor_id", actorID).Uint64("target_id", targetID).Msg("user unbanned")

	return nil
}

// IsEffectivelyBanned reports whether the user is currently banned: the
// stored flag is set and the ban has not lapsed. Expiry is evaluated
// lazily against the clock on every read; expired rows are never swept.
// This is the only check content entry points should use, never the raw
// stored flag. It never errors; ambiguity resolves to false.
func (s *Service) IsEffectivelyBanned(userID uint64) bool {
	b, err := banctl.GetByUser(s.db, userID)
	if err != nil {
		if !errors.Is(err, banctl.ErrBanNotFound) {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to read ban state")
		}

		return false
	}

	return effectivelyBanned(b, s.clock.Now())
}

// RemainingBanMinutes returns the minutes left on the user's ban, rounded
// up: -1 for a permanent ban, 0 when the user is not banned or the ban has
// lapsed. The value is for display only; gating uses IsEffectivelyBanned.
func (s *Service) RemainingBanMinutes(userID uint64) int {
	b, err := banctl.GetByUser(s.db, userID)
	if err != nil {
		return 0
	}

	now := s.clock.Now()
	if !effectivelyBanned(b, now) {
		return 0
	}

	if b.ExpiresAt == nil {
		return PermanentBan
	}

	remaining := b.ExpiresAt.Sub(now)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	return minutes
}

// BanState returns the stored ban row for display purposes, or nil when the
// user has never been banned.
func (s *Service) BanState(userID uint64) *models.UserBan {
	b, err := banctl.GetByUser(s.db, userID)
	if err != nil {
		return nil
	}

	return b
}

func effectivelyBanned(b *models.UserBan, now time.Time) bool {
	if !b.Banned {
		return false
	}

	return b.ExpiresAt == nil || now.Before(*b.ExpiresAt)
}
