package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/models"
)

func TestHasPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)
	outsider := createUser(t, db, "outsider", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	assert.True(t, svc.HasPermission(groupID, owner, ActionDeleteGroup))
	assert.True(t, svc.HasPermission(groupID, moderator, ActionApproveJoinRequest))
	assert.False(t, svc.HasPermission(groupID, moderator, ActionChangeSettings))
	assert.False(t, svc.HasPermission(groupID, member, ActionRemoveMember))
	assert.False(t, svc.HasPermission(groupID, outsider, ActionViewAnalytics))
	assert.False(t, svc.HasPermission(groupID+100, owner, ActionDeleteGroup), "unknown group denies")
}

func TestCanPost(t *testing.T) {
	testCases := []struct {
		name    string
		policy  models.PostPolicy
		role    models.Role
		allowed bool
	}{
		{name: "all members, member", policy: models.PostPolicyAllMembers, role: models.RoleMember, allowed: true},
		{name: "all members, moderator", policy: models.PostPolicyAllMembers, role: models.RoleModerator, allowed: true},
		{name: "mods and admins, member", policy: models.PostPolicyModeratorsAndAdmins, role: models.RoleMember, allowed: false},
		{name: "mods and admins, moderator", policy: models.PostPolicyModeratorsAndAdmins, role: models.RoleModerator, allowed: true},
		{name: "mods and admins, admin", policy: models.PostPolicyModeratorsAndAdmins, role: models.RoleAdmin, allowed: true},
		{name: "admins only, moderator", policy: models.PostPolicyAdminsOnly, role: models.RoleModerator, allowed: false},
		{name: "admins only, admin", policy: models.PostPolicyAdminsOnly, role: models.RoleAdmin, allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			svc := NewService(db)

			owner := createUser(t, db, "owner", false)
			user := createUser(t, db, "user", false)

			groupID := createGroup(t, db, owner, func(g *models.Group) {
				g.PostPermissions = tc.policy
			})
			addMember(t, db, groupID, user, tc.role)

			assert.Equal(t, tc.allowed, svc.CanPost(groupID, user))
		})
	}
}

func TestCanPostNonMemberAndOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	outsider := createUser(t, db, "outsider", false)

	groupID := createGroup(t, db, owner, func(g *models.Group) {
		g.PostPermissions = models.PostPolicyAdminsOnly
	})

	assert.True(t, svc.CanPost(groupID, owner), "owner posts under any policy")
	assert.False(t, svc.CanPost(groupID, outsider), "non-member never posts")
}

func TestCanComment(t *testing.T) {
	testCases := []struct {
		name    string
		policy  models.CommentPolicy
		role    models.Role
		allowed bool
	}{
		{name: "all members, member", policy: models.CommentPolicyAllMembers, role: models.RoleMember, allowed: true},
		{name: "members only, member", policy: models.CommentPolicyMembersOnly, role: models.RoleMember, allowed: true},
		{name: "members only, moderator", policy: models.CommentPolicyMembersOnly, role: models.RoleModerator, allowed: true},
		{name: "admins only, member", policy: models.CommentPolicyAdminsOnly, role: models.RoleMember, allowed: false},
		{name: "admins only, moderator", policy: models.CommentPolicyAdminsOnly, role: models.RoleModerator, allowed: false},
		{name: "admins only, admin", policy: models.CommentPolicyAdminsOnly, role: models.RoleAdmin, allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			svc := NewService(db)

			owner := createUser(t, db, "owner", false)
			user := createUser(t, db, "user", false)

			groupID := createGroup(t, db, owner, func(g *models.Group) {
				g.CommentPermissions = tc.policy
			})
			addMember(t, db, groupID, user, tc.role)

			assert.Equal(t, tc.allowed, svc.CanComment(groupID, user))
		})
	}
}

func TestChangeMemberRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	admin := createUser(t, db, "admin", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, admin, models.RoleAdmin)
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("admin promotes member to moderator", func(t *testing.T) {
		require.NoError(t, svc.ChangeMemberRole(groupID, admin, member, models.RoleModerator))

		m, err := membership.Get(db, groupID, member)
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, m.Role)

		require.NoError(t, svc.ChangeMemberRole(groupID, admin, member, models.RoleMember))
	})

	t.Run("admin cannot promote to admin", func(t *testing.T) {
		err := svc.ChangeMemberRole(groupID, admin, member, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner promotes to admin", func(t *testing.T) {
		require.NoError(t, svc.ChangeMemberRole(groupID, owner, member, models.RoleAdmin))
		require.NoError(t, svc.ChangeMemberRole(groupID, owner, member, models.RoleMember))
	})

	t.Run("admin cannot demote another admin", func(t *testing.T) {
		extra := createUser(t, db, "extra-admin", false)
		addMember(t, db, groupID, extra, models.RoleAdmin)

		err := svc.ChangeMemberRole(groupID, admin, extra, models.RoleMember)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		require.NoError(t, svc.ChangeMemberRole(groupID, owner, extra, models.RoleMember))
	})

	t.Run("moderator cannot change roles", func(t *testing.T) {
		err := svc.ChangeMemberRole(groupID, moderator, member, models.RoleModerator)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner is never a target", func(t *testing.T) {
		err := svc.ChangeMemberRole(groupID, admin, owner, models.RoleMember)
		assert.ErrorIs(t, err, ErrOwnerCannotBeTarget)
	})

	t.Run("owner role cannot be assigned", func(t *testing.T) {
		err := svc.ChangeMemberRole(groupID, owner, member, models.RoleOwner)
		assert.ErrorIs(t, err, ErrOwnerCannotBeTarget)
	})

	t.Run("non-member actor denied", func(t *testing.T) {
		outsider := createUser(t, db, "outsider", false)

		err := svc.ChangeMemberRole(groupID, outsider, member, models.RoleModerator)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("role change lands in moderation log", func(t *testing.T) {
		entries, err := svc.ModerationLog(groupID, owner, 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, string(ActionChangeRole), entries[0].Action)
	})
}

func TestRemoveMember(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	admin := createUser(t, db, "admin", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, admin, models.RoleAdmin)
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("member cannot remove", func(t *testing.T) {
		err := svc.RemoveMember(groupID, member, moderator)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("moderator cannot remove admin", func(t *testing.T) {
		err := svc.RemoveMember(groupID, moderator, admin)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin cannot remove admin", func(t *testing.T) {
		extra := createUser(t, db, "extra-admin", false)
		addMember(t, db, groupID, extra, models.RoleAdmin)

		err := svc.RemoveMember(groupID, admin, extra)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		require.NoError(t, svc.RemoveMember(groupID, owner, extra), "owner removes admin")
	})

	t.Run("owner is never a target", func(t *testing.T) {
		err := svc.RemoveMember(groupID, admin, owner)
		assert.ErrorIs(t, err, ErrOwnerCannotBeTarget)
	})

	t.Run("moderator removes member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(groupID, moderator, member))

		_, err := membership.Get(db, groupID, member)
		assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
	})

	t.Run("removing a non-member fails", func(t *testing.T) {
		err := svc.RemoveMember(groupID, moderator, member)
		assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
	})
}

func TestBanFromGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	require.NoError(t, svc.BanFromGroup(groupID, moderator, member, "spam"))

	_, err := membership.Get(db, groupID, member)
	assert.ErrorIs(t, err, membership.ErrMembershipNotFound)

	entries, err := svc.ModerationLog(groupID, moderator, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, string(ActionBanMember), entries[0].Action)
	assert.Equal(t, "spam", entries[0].Reason)
	assert.Equal(t, member, entries[0].TargetID)
}

func TestLeaveGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	admin := createUser(t, db, "admin", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, admin, models.RoleAdmin)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("owner cannot leave", func(t *testing.T) {
		err := svc.LeaveGroup(groupID, owner)
		assert.ErrorIs(t, err, ErrOwnerCannotLeave)
	})

	t.Run("admin leaves", func(t *testing.T) {
		require.NoError(t, svc.LeaveGroup(groupID, admin))

		_, err := membership.Get(db, groupID, admin)
		assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
	})

	t.Run("member leaves", func(t *testing.T) {
		require.NoError(t, svc.LeaveGroup(groupID, member))
	})

	t.Run("leaving twice fails", func(t *testing.T) {
		err := svc.LeaveGroup(groupID, member)
		assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
	})
}

func TestListMembersVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	moderator := createUser(t, db, "moderator", false)
	member := createUser(t, db, "member", false)
	outsider := createUser(t, db, "outsider", false)

	groupID := createGroup(t, db, owner, func(g *models.Group) {
		g.ShowMemberList = false
	})
	addMember(t, db, groupID, moderator, models.RoleModerator)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("hidden list blocks plain members", func(t *testing.T) {
		_, err := svc.ListMembers(groupID, member)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("hidden list readable by moderator", func(t *testing.T) {
		members, err := svc.ListMembers(groupID, moderator)
		require.NoError(t, err)
		assert.Len(t, members, 3)
	})

	t.Run("outsider always denied", func(t *testing.T) {
		_, err := svc.ListMembers(groupID, outsider)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("visible list readable by members", func(t *testing.T) {
		openID := createGroup(t, db, owner, func(g *models.Group) {
			g.Name = "open"
		})
		addMember(t, db, openID, member, models.RoleMember)

		members, err := svc.ListMembers(openID, member)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})
}

func TestModerationLogPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, member, models.RoleMember)

	_, err := svc.ModerationLog(groupID, member, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGroupCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	owner := createUser(t, db, "owner", false)
	admin := createUser(t, db, "admin", false)
	member := createUser(t, db, "member", false)

	groupID := createGroup(t, db, owner, nil)
	addMember(t, db, groupID, admin, models.RoleAdmin)
	addMember(t, db, groupID, member, models.RoleMember)

	t.Run("creator holds owner membership", func(t *testing.T) {
		m, err := membership.Get(db, groupID, owner)
		require.NoError(t, err)
		assert.Equal(t, models.RoleOwner, m.Role)
	})

	t.Run("admin updates settings", func(t *testing.T) {
		g, err := svc.GetGroup(groupID)
		require.NoError(t, err)

		g.Description = "for gophers"
		require.NoError(t, svc.UpdateGroupSettings(groupID, admin, g))

		got, err := svc.GetGroup(groupID)
		require.NoError(t, err)
		assert.Equal(t, "for gophers", got.Description)
	})

	t.Run("member cannot update settings", func(t *testing.T) {
		g, err := svc.GetGroup(groupID)
		require.NoError(t, err)

		err = svc.UpdateGroupSettings(groupID, member, g)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("member cannot delete group", func(t *testing.T) {
		err := svc.DeleteGroup(groupID, member)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin deletes group", func(t *testing.T) {
		require.NoError(t, svc.DeleteGroup(groupID, admin))

		_, err := svc.GetGroup(groupID)
		assert.Error(t, err)
	})
}
