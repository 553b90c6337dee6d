package access

import (
	"errors"
	"time"

	"gorm.io/gorm"

	invitectl "github.com/guildgate/guildgate/internal/db/controller/invite"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/models"
	"github.com/guildgate/guildgate/internal/uniuri"
)

// inviteCodeLength is the length of generated invite codes.
const inviteCodeLength = 20

// CreateInvite creates an invite code for a group. Moderators and above may
// always create invites; plain members may when the group allows member
// invites. A nil expiresAt means the code never expires; maxUses zero means
// unlimited redemptions.
func (s *Service) CreateInvite(groupID uint, actorID uint64, expiresAt *time.Time, maxUses int) (*models.GroupInvite, error) {
	if maxUses < 0 {
		return nil, ErrValidation
	}

	g, err := s.GetGroup(groupID)
	if err != nil {
		return nil, err
	}

	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok {
		return nil, denied("create_invite", "")
	}

	if role.Rank() < models.RoleModerator.Rank() && !g.AllowMemberInvites {
		return nil, denied("create_invite", role)
	}

	inv := models.GroupInvite{
		GroupID:   groupID,
		Code:      uniuri.NewLen(inviteCodeLength),
		ExpiresAt: expiresAt,
		MaxUses:   maxUses,
		CreatedBy: actorID,
	}

	if err := invitectl.Create(s.db, &inv); err != nil {
		return nil, err
	}

	return &inv, nil
}

// RedeemInvite exchanges a valid invite code for a member-role membership.
// It works regardless of the group's join policy and is the only
// self-service path into an invite_only group. Effectively banned users
// cannot redeem; expired or exhausted codes are rejected. Redeeming while
// already a member reports the existing membership and does not consume a
// use.
func (s *Service) RedeemInvite(code string, userID uint64) (JoinOutcome, error) {
	if s.IsEffectivelyBanned(userID) {
		return "", denied("join", "")
	}

	inv, err := invitectl.GetByCode(s.db, code)
	if err != nil {
		return "", err
	}

	if inv.ExpiresAt != nil && !s.clock.Now().Before(*inv.ExpiresAt) {
		return "", ErrInviteExpired
	}

	var outcome JoinOutcome

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := membership.Get(tx, inv.GroupID, userID); err == nil {
			outcome = JoinOutcomeAlreadyMember
			return nil
		} else if !errors.Is(err, membership.ErrMembershipNotFound) {
			return err
		}

		if err := invitectl.ConsumeUse(tx, inv.ID); err != nil {
			return err
		}

		m := models.Membership{GroupID: inv.GroupID, UserID: userID, Role: models.RoleMember}
		if err := membership.Create(tx, &m); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				outcome = JoinOutcomeAlreadyMember
				return nil
			}
			return err
		}

		outcome = JoinOutcomeJoined
		return nil
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// ListInvites returns a group's invite codes. Requires moderator or above.
func (s *Service) ListInvites(groupID uint, actorID uint64) ([]models.GroupInvite, error) {
	role, ok := s.roleOf(s.db, groupID, actorID)
	if !ok || role.Rank() < models.RoleModerator.Rank() {
		return nil, denied("create_invite", role)
	}

	return invitectl.ListByGroup(s.db, groupID)
}
