// Package joinrequest provides storage operations for the join-request workflow.
package joinrequest

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

const (
	pendingPairQueryPattern = "group_id = ? AND user_id = ? AND status = ?"
)

var (
	// ErrJoinRequestNotFound is returned when a join request is not found.
	ErrJoinRequestNotFound = errors.New("join request not found")
	// ErrNotPending is returned when a transition targets a request that is
	// no longer in the pending state. Under a decision race exactly one
	// caller succeeds; all others observe this error.
	ErrNotPending = errors.New("join request is not pending")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a join request by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.JoinRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var req models.JoinRequest
	result := db.First(&req, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, result.Error
	}

	return &req, nil
}

// FindPending retrieves the pending request for a (group, user) pair, if any.
func FindPending(db *gorm.DB, groupID uint, userID uint64) (*models.JoinRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var req models.JoinRequest
	result := db.Where(pendingPairQueryPattern, groupID, userID, models.JoinRequestPending).First(&req)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, result.Error
	}

	return &req, nil
}

// Create inserts a new pending join request. Pending-uniqueness per
// (group, user) is the caller's contract, enforced inside the join workflow
// transaction.
func Create(db *gorm.DB, req *models.JoinRequest) error {
	if db == nil {
		return ErrDBNil
	}

	req.Status = models.JoinRequestPending

	return db.Create(req).Error
}

// ListPending retrieves all pending requests of a group, oldest first.
func ListPending(db *gorm.DB, groupID uint) ([]models.JoinRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var reqs []models.JoinRequest
	result := db.Where("group_id = ? AND status = ?", groupID, models.JoinRequestPending).
		Order("requested_at ASC").
		Find(&reqs)
	if result.Error != nil {
		return nil, result.Error
	}

	return reqs, nil
}

// Decide transitions a pending request to a terminal status. The update is
// guarded on status = pending so concurrent decisions cannot both succeed:
// the loser gets ErrNotPending.
func Decide(db *gorm.DB, id uint64, status models.JoinRequestStatus, actorID uint64, now time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, models.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now,
			"responded_by": actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

// CancelPending marks the pending request of a (group, user) pair as
// cancelled. Returns true if a request was cancelled, false if none was
// pending; the absence of a pending request is not an error so the caller
// can stay idempotent.
func CancelPending(db *gorm.DB, groupID uint, userID uint64, now time.Time) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	result := db.Model(&models.JoinRequest{}).
		Where(pendingPairQueryPattern, groupID, userID, models.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":       models.JoinRequestCancelled,
			"responded_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
