package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"payhook/database"
	"payhook/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "k1"

// newTestDB opens a migrated sqlite database in a temp dir
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(sqlite.Open(path + "?_busy_timeout=5000&_foreign_keys=on"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// newLedgerDB is newTestDB with users 1 to 4 already stored
func newLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	seedUsers(t, db, 1, 2, 3, 4)
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Create(&models.User{
			ID:           id,
			Email:        fmt.Sprintf("user%d@example.com", id),
			PasswordHash: "not-a-hash",
			FullName:     fmt.Sprintf("User %d", id),
			Role:         models.RoleUser,
		}).Error)
	}
}

func signedFields(accountID, userID uint, amount, txID string) (PaymentFields, string) {
	f := PaymentFields{
		AccountID:     accountID,
		UserID:        userID,
		Amount:        decimalFromString(amount),
		TransactionID: txID,
	}
	return f, Sign(f, testSecret)
}
