package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	require.NoError(t, InitDB(cfg))
	t.Cleanup(func() { _ = CloseDB() })
}

func TestInitDBMigratesTables(t *testing.T) {
	openTestDB(t)

	assert.True(t, GetDB().Migrator().HasTable(&model.User{}))
	assert.True(t, GetDB().Migrator().HasTable(&model.Prediction{}))
}

func TestUsernameUniqueIndex(t *testing.T) {
	openTestDB(t)

	require.NoError(t, GetDB().Create(&model.User{Username: "alice", PasswordHash: "h1"}).Error)
	err := GetDB().Create(&model.User{Username: "alice", PasswordHash: "h2"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestIsNotFound(t *testing.T) {
	openTestDB(t)

	var u model.User
	err := GetDB().Where("username = ?", "nobody").First(&u).Error
	assert.True(t, IsNotFound(err))
}

func TestCheckpoint(t *testing.T) {
	openTestDB(t)

	require.NoError(t, GetDB().Create(&model.Prediction{
		RecordId:  "r-1",
		Username:  "alice",
		CreatedAt: time.Now().UTC(),
	}).Error)
	assert.NoError(t, Checkpoint())
}

func TestInitDBRejectsInvalidConfig(t *testing.T) {
	err := InitDB(&config.DatabaseConfig{Type: config.DatabaseTypeSQLite})
	assert.Error(t, err)
}
