package access

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	groupctl "github.com/guildgate/guildgate/internal/db/controller/group"
	membershipctl "github.com/guildgate/guildgate/internal/db/controller/membership"
	"github.com/guildgate/guildgate/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
// TranslateError is on so duplicate-key detection behaves like production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Membership{},
		&models.JoinRequest{},
		&models.UserBan{},
		&models.GroupInvite{},
		&models.ModerationLog{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// fakeClock is a pinnable clock for ban and invite expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// createUser inserts a user and returns its ID.
func createUser(t *testing.T, db *gorm.DB, username string, admin bool) uint64 {
	t.Helper()

	u := models.User{
		Username: username,
		Active:   true,
		Admin:    admin,
	}
	require.NoError(t, db.Create(&u).Error, "failed to seed user")

	return u.ID
}

// createGroup creates a group owned by ownerID and returns its ID.
func createGroup(t *testing.T, db *gorm.DB, ownerID uint64, mutate func(*models.Group)) uint {
	t.Helper()

	g := models.Group{
		Name:               "gophers",
		Type:               models.GroupTypePublic,
		JoinApproval:       models.JoinApprovalAnyone,
		PostPermissions:    models.PostPolicyAllMembers,
		CommentPermissions: models.CommentPolicyAllMembers,
		ShowMemberList:     true,
		Searchable:         true,
		CreatedBy:          ownerID,
	}
	if mutate != nil {
		mutate(&g)
	}

	require.NoError(t, groupctl.Create(db, &g), "failed to seed group")

	return g.ID
}

// addMember inserts a membership with the given role.
func addMember(t *testing.T, db *gorm.DB, groupID uint, userID uint64, role models.Role) {
	t.Helper()

	m := models.Membership{GroupID: groupID, UserID: userID, Role: role}
	require.NoError(t, membershipctl.Create(db, &m), "failed to seed membership")
}
