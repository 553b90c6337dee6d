package modlog

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.ModerationLog{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestAppendAndList(t *testing.T) {
	db := setupTestDB(t)

	assert.ErrorIs(t, Append(nil, &models.ModerationLog{}), ErrDBNil)

	_, err := ListByGroup(nil, 1, 0)
	assert.ErrorIs(t, err, ErrDBNil)

	require.NoError(t, Append(db, &models.ModerationLog{GroupID: 1, ActorID: 1, TargetID: 2, Action: "remove_member"}))
	require.NoError(t, Append(db, &models.ModerationLog{GroupID: 1, ActorID: 1, TargetID: 3, Action: "ban_member", Reason: "spam"}))
	require.NoError(t, Append(db, &models.ModerationLog{GroupID: 2, ActorID: 1, TargetID: 4, Action: "remove_member"}))

	entries, err := ListByGroup(db, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ban_member", entries[0].Action, "newest first")
	assert.Equal(t, "remove_member", entries[1].Action)

	limited, err := ListByGroup(db, 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "ban_member", limited[0].Action)
}
