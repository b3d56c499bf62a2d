// Package storagetest opens a throwaway SQLite-backed storage for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated storage backed by a temp-file SQLite database.
// Redis is disabled.
func New(t *testing.T) *storage.Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "casewatch_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))
	return storage.NewStorageService(db, nil)
}

// SeedUser inserts a user with the given role and a VERIFIED account.
func SeedUser(t *testing.T, s *storage.Service, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Role: role, Status: models.AccountVerified}
	require.NoError(t, s.DB.WithContext(context.Background()).Create(u).Error)
	return u
}
