package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invitectl "github.com/guildgate/guildgate/internal/db/controller/invite"
	"github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/models"
)

func TestCreateInvitePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)
	outsider := createUser(t, db, "outsider", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("moderator creates invite", func(t *testing.T) {
		inv, err := svc.CreateInvite(groupID, moderator, nil, 0)
		require.NoError(t, err)
		assert.Len(t, inv.Code, 20)
		assert.Equal(t, groupID, inv.GroupID)
		assert.Equal(t, moderator, inv.CreatedBy)
	})

	t.Run("member denied when member invites are off", func(t *testing.T) {
		_, err := svc.CreateInvite(groupID, member, nil, 0)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("outsider denied", func(t *testing.T) {
		_, err := svc.CreateInvite(groupID, outsider, nil, 0)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("negative max uses rejected", func(t *testing.T) {
		_, err := svc.CreateInvite(groupID, moderator, nil, -1)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("member allowed when member invites are on", func(t *testing.T) {
		openID := createGroup(t, db, owner, func(g *models.Group) {
			g.Name = "open"
			g.AllowMemberInvites = true
		})
		addMember(t, db, openID, member, models.RoleMember)

		_, err := svc.CreateInvite(openID, member, nil, 0)
		assert.NoError(t, err)
	})
}

func TestRedeemInvite(t *testing.T) {
	db := setupTestDB(t)
	clock := newFakeClock()
	svc := NewServiceWithClock(db, clock)

	owner := createUser(t, db, "owner", false)
	user := createUser(t, db, "user", false)

	// invite_only group: self-service join is closed, invite is the only door
	groupID := createGroup(t, db, owner, func(g *models.Group) {
		g.JoinApproval = models.JoinApprovalInviteOnly
	})

	inv, err := svc.CreateInvite(groupID, owner, nil, 0)
	require.NoError(t, err)

	_, err = svc.RequestJoin(groupID, user, "")
	require.ErrorIs(t, err, ErrJoinClosed)

	outcome, err := svc.RedeemInvite(inv.Code, user)
	require.NoError(t, err)
	assert.Equal(t, JoinOutcomeJoined, outcome)

	m, err := membership.Get(db, groupID, user)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.Role)

	t.Run("redeeming as member does not consume a use", func(t *testing.T) {
		outcome, err := svc.RedeemInvite(inv.Code, user)
		require.NoError(t, err)
		assert.Equal(t, JoinOutcomeAlreadyMember, outcome)

		got, err := invitectl.GetByCode(db, inv.Code)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Uses)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.RedeemInvite("nope", user)
		assert.ErrorIs(t, err, invitectl.ErrInviteNotFound)
	})
}

func TestRedeemInviteExpiry(t *testing.T) {
	db := setupTestDB(t)
	clock := newFakeClock()
	svc := NewServiceWithClock(db, clock)

	owner := createUser(t, db, "owner", false)
	user := createUser(t, db, "user", false)
	groupID := createGroup(t, db, owner, nil)

	expires := clock.Now().Add(time.Hour)
	inv, err := svc.CreateInvite(groupID, owner, &expires, 0)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	_, err = svc.RedeemInvite(inv.Code, user)
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestRedeemInviteMaxUses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	first := createUser(t, db, "first", false)
	second := createUser(t, db, "second", false)
	groupID := createGroup(t, db, owner, nil)

	inv, err := svc.CreateInvite(groupID, owner, nil, 1)
	require.NoError(t, err)

	outcome, err := svc.RedeemInvite(inv.Code, first)
	require.NoError(t, err)
	require.Equal(t, JoinOutcomeJoined, outcome)

	_, err = svc.RedeemInvite(inv.Code, second)
	assert.ErrorIs(t, err, invitectl.ErrInviteExhausted)
}

func TestRedeemInviteBannedUser(t *testing.T) {
	db := setupTestDB(t)
	clock := newFakeClock()
	svc := NewServiceWithClock(db, clock)

	admin := createUser(t, db, "platform-admin", true)
	owner := createUser(t, db, "owner", false)
	user := createUser(t, db, "user", false)
	groupID := createGroup(t, db, owner, nil)

	inv, err := svc.CreateInvite(groupID, owner, nil, 0)
	require.NoError(t, err)

	require.NoError(t, svc.BanUser(admin, user, nil, "abuse"))

	_, err = svc.RedeemInvite(inv.Code, user)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListInvites(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	member := createUser(t, db, "member", false)
	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, member, models.RoleMember)

	_, err := svc.CreateInvite(groupID, owner, nil, 0)
	require.NoError(t, err)

	invites, err := svc.ListInvites(groupID, owner)
	require.NoError(t, err)
	assert.Len(t, invites, 1)

	_, err = svc.ListInvites(groupID, member)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
