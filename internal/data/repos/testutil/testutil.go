package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/amelfit-backend/internal/data/db"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

// Integration tests run against TEST_POSTGRES_DSN with the production schema and indexes.
// Each test works inside a transaction that is rolled back on cleanup.

var (
	schemaOnce sync.Once
	schemaDB   *gorm.DB
	schemaErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	schemaOnce.Do(func() {
		schemaDB, schemaErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if schemaErr != nil {
			return
		}
		if schemaErr = schemaDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; schemaErr != nil {
			return
		}
		if schemaErr = db.AutoMigrateAll(schemaDB); schemaErr != nil {
			return
		}
		schemaErr = db.EnsureIndexes(schemaDB)
	})
	if schemaErr != nil {
		tb.Fatalf("prepare test schema: %v", schemaErr)
	}
	return schemaDB
}

func Tx(tb testing.TB, conn *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := conn.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { _ = tx.Rollback().Error })
	return tx
}
