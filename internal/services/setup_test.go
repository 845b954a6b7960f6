package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/laundrylink/internal/database"
	"github.com/example/laundrylink/internal/identity"
	"github.com/example/laundrylink/internal/models"
)

// testDB opens a fresh in-memory database with the full schema. Single
// connection, so every query sees the same in-memory store.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func emailIdentity(t *testing.T, addr string) identity.Identity {
	t.Helper()
	id, err := identity.NewEmail(addr)
	require.NoError(t, err)
	return id
}

func phoneIdentity(t *testing.T, countryCode, number string) identity.Identity {
	t.Helper()
	id, err := identity.NewPhone(countryCode, number)
	require.NoError(t, err)
	return id
}

func createAccount(t *testing.T, db *gorm.DB, addr string) *models.User {
	t.Helper()
	user, err := NewIdentityStore(db).GetOrCreate(emailIdentity(t, addr), "")
	require.NoError(t, err)
	return user
}
