package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"friendgraph-api/database"
	"friendgraph-api/database/testdb"
	"friendgraph-api/models"
)

func TestMigrateCreatesPairIndex(t *testing.T) {
	db := testdb.Open(t)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Friendship{}))
	assert.True(t, db.Migrator().HasIndex(&models.Friendship{}, "uk_friendships_pair"))
	assert.True(t, db.Migrator().HasIndex(&models.Friendship{}, "idx_friendships_user_status_created"))
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
}

func TestSeedDataCreatesUsersAndFriendshipsOnce(t *testing.T) {
	db := testdb.Open(t)

	require.NoError(t, database.SeedData(db, 6, 42, zap.NewNop()))

	var users, friendships int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Friendship{}).Count(&friendships).Error)
	assert.Equal(t, int64(6), users)
	assert.Equal(t, int64(12), friendships)

	require.NoError(t, database.SeedData(db, 6, 42, zap.NewNop()))
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(6), users)
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := database.Initialize("oracle", "dsn", false, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
