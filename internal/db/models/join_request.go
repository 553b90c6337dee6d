package models

import "time"

// JoinRequestStatus is the state of a join request.
type JoinRequestStatus string

const (
	// JoinRequestPending awaits a decision by a moderator or above.
	JoinRequestPending JoinRequestStatus = "pending"
	// JoinRequestApproved means the request was approved and a membership created.
	JoinRequestApproved JoinRequestStatus = "approved"
	// JoinRequestRejected means the request was rejected by a moderator or above.
	JoinRequestRejected JoinRequestStatus = "rejected"
	// JoinRequestCancelled means the requester withdrew the request.
	JoinRequestCancelled JoinRequestStatus = "cancelled"
)

// JoinRequest represents a pending or decided request for group membership.
// Requests exist only for groups with the admin_approval join policy.
// A user has at most one pending request per group; terminal rows
// (approved, rejected, cancelled) are retained for audit and excluded from
// pending queries.
type JoinRequest struct {
	// ID is the unique identifier for the join request.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the ID of the group the user wants to join.
	GroupID uint `gorm:"not null;index:idx_join_request_group_status"`
	// UserID is the ID of the requesting user.
	UserID uint64 `gorm:"not null;index"`
	// Status is the request state (pending, approved, rejected or cancelled).
	// All transitions out of pending use a conditional update guarded on this
	// column so concurrent decisions cannot both succeed.
	Status JoinRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_join_request_group_status"`
	// Message is an optional note from the requester shown to moderators.
	Message string `gorm:"size:500"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, its join requests are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// RequestedAt is the timestamp when the request was created.
	RequestedAt time.Time `gorm:"not null"`
	// RespondedAt is the timestamp of the decision (nil while pending).
	RespondedAt *time.Time
	// RespondedBy is the user ID of the deciding actor (zero while pending or cancelled).
	RespondedBy uint64
}

// TableName specifies the database table name for the JoinRequest model.
// This overrides GORM's default pluralized table naming.
func (JoinRequest) TableName() string {
	return "join_requests"
}
