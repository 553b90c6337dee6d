package access

import (
	"errors"

	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/controller/joinrequest"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/controller/modlog"
	"github.com/guildgate/guildgate/internal/db/models"
)

// JoinOutcome is the result of a join attempt.
type JoinOutcome string

const (
	// JoinOutcomeJoined means a membership was created directly.
	JoinOutcomeJoined JoinOutcome = "joined"
	// JoinOutcomePending means a join request was created and awaits review.
	JoinOutcomePending JoinOutcome = "pending"
	// JoinOutcomeAlreadyMember means the user already holds a membership.
	JoinOutcomeAlreadyMember JoinOutcome = "already_member"
	// JoinOutcomeAlreadyPending means a pending request already exists.
	JoinOutcomeAlreadyPending JoinOutcome = "already_pending"
)

// RequestJoin runs the self-service join path for a group according to its
// join policy. Joining while already a member or while a request is pending
// is a reported no-op, not an error. Effectively banned users cannot join.
func (s *Service) RequestJoin(groupID uint, userID uint64, message string) (JoinOutcome, error) {
	if s.IsEffectivelyBanned(userID) {
		return "", denied("join", "")
	}

	g, err := s.GetGroup(groupID)
	if err != nil {
		return "", err
	}

	var outcome JoinOutcome

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := membership.Get(tx, groupID, userID); err == nil {
			outcome = JoinOutcomeAlreadyMember
			return nil
		} else if !errors.Is(err, membership.ErrMembershipNotFound) {
			return err
		}

		switch g.JoinApproval {
		case models.JoinApprovalInviteOnly:
			return ErrJoinClosed

		case models.JoinApprovalAnyone:
			m := models.Membership{GroupID: groupID, UserID: userID, Role: models.RoleMember}
			if err := membership.Create(tx, &m); err != nil {
				// A concurrent join won the unique (group, user) index.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					outcome = JoinOutcomeAlreadyMember
					return nil
				}
				return err
			}

			outcome = JoinOutcomeJoined
			return nil

		case models.JoinApprovalAdmin:
			if _, err := joinrequest.FindPending(tx, groupID, userID); err == nil {
				outcome = JoinOutcomeAlreadyPending
				return nil
			} else if !errors.Is(err, joinrequest.ErrJoinRequestNotFound) {
				return err
			}

			req := models.JoinRequest{
				GroupID:     groupID,
				UserID:      userID,
				Message:     message,
				RequestedAt: s.clock.Now(),
			}
			if err := joinrequest.Create(tx, &req); err != nil {
				return err
			}

			outcome = JoinOutcomePending
			return nil

		default:
			return ErrJoinClosed
		}
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// CancelJoinRequest withdraws the user's pending request for a group.
// Cancelling when no request is pending is a no-op; calling it twice in a
// row succeeds both times with no duplicate side effects.
func (s *Service) CancelJoinRequest(groupID uint, userID uint64) error {
	_, err := joinrequest.CancelPending(s.db, groupID, userID, s.clock.Now())

	return err
}

// ListPendingJoinRequests returns the group's pending requests, oldest
// first. Requires the approve_join_request capability.
func (s *Service) ListPendingJoinRequests(groupID uint, actorID uint64) ([]models.JoinRequest, error) {
	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok || !Allows(role, ActionApproveJoinRequest) {
		return nil, denied(ActionApproveJoinRequest, role)
	}

	return joinrequest.ListPending(s.db, groupID)
}

// ApproveJoinRequest approves a pending request and creates the membership.
// The status transition is conditional on the pending state, so of two
// concurrent approvals exactly one succeeds and the other observes
// ErrNotPending.
func (s *Service) ApproveJoinRequest(groupID uint, requestID uint64, actorID uint64) error {
	return s.decideJoinRequest(groupID, requestID, actorID, ActionApproveJoinRequest)
}

// RejectJoinRequest rejects a pending request. Like approval, rejecting a
// request that is no longer pending fails with ErrNotPending.
func (s *Service) RejectJoinRequest(groupID uint, requestID uint64, actorID uint64) error {
	return s.decideJoinRequest(groupID, requestID, actorID, ActionRejectJoinRequest)
}

func (s *Service) decideJoinRequest(groupID uint, requestID uint64, actorID uint64, action Action) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		role, ok := s.roleOf(tx, groupID, actorID)
		if !ok || !Allows(role, action) {
			return denied(action, role)
		}

		req, err := joinrequest.GetByID(tx, requestID)
		if err != nil {
			return err
		}
		if req.GroupID != groupID {
			return joinrequest.ErrJoinRequestNotFound
		}

		status := models.JoinRequestApproved
		if action == ActionRejectJoinRequest {
			status = models.JoinRequestRejected
		}

		if err := joinrequest.Decide(tx, requestID, status, actorID, s.clock.Now()); err != nil {
			return err
		}

		if action == ActionApproveJoinRequest {
			m := models.Membership{GroupID: groupID, UserID: req.UserID, Role: models.RoleMember}
			if err := membership.Create(tx, &m); err != nil {
				return err
			}
		}

		return modlog.Append(tx, &models.ModerationLog{
			GroupID:  groupID,
			ActorID:  actorID,
			TargetID: req.UserID,
			Action:   string(action),
		})
	})
}
