package database

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"careportal/config"
	"careportal/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOpenSeedsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")

	db, err := Open(config.StorageConfig{Driver: "sqlite", Path: path}, 2000, newTestLogger())
	require.NoError(t, err)

	var users []entity.User
	require.NoError(t, db.Order("email asc").Find(&users).Error)
	require.Len(t, users, 2)

	assert.Equal(t, SeedDoctorEmail, users[0].Email)
	assert.Equal(t, entity.UserTypeDoctor, users[0].UserType)
	assert.Equal(t, SeedMemberEmail, users[1].Email)
	assert.Equal(t, entity.UserTypeMember, users[1].UserType)

	// Passwords are stored as bcrypt hashes, never as plaintext.
	assert.NotEqual(t, "password123", users[1].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[1].PasswordHash), []byte("password123")))

	var settings entity.Settings
	require.NoError(t, db.First(&settings).Error)
	assert.Equal(t, 5, settings.MaxLoginAttempts)
	assert.Equal(t, 2000, settings.MaxMessageLength)
	assert.Equal(t, 365, settings.MessageRetentionDays)
}

func TestOpenDoesNotReseedExistingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")
	log := newTestLogger()

	db, err := Open(config.StorageConfig{Driver: "sqlite", Path: path}, 2000, log)
	require.NoError(t, err)

	extra := entity.User{
		Email:        "third@example.com",
		PasswordHash: "x",
		UserType:     entity.UserTypeMember,
		Name:         "Third",
	}
	require.NoError(t, db.Create(&extra).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err = Open(config.StorageConfig{Driver: "sqlite", Path: path}, 2000, log)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestOpenQuarantinesCorruptStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database"), 0o644))

	db, err := Open(config.StorageConfig{Driver: "sqlite", Path: path}, 2000, newTestLogger())
	require.NoError(t, err)

	// The replacement store is seeded and usable.
	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// The damaged file was moved aside, not destroyed.
	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "this is not a sqlite database", string(content))
}
