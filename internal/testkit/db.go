// Package testkit holds fixtures shared by package tests.
package testkit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	mainmodel "pg-bridge-api/internal/model/main"
	ordermodel "pg-bridge-api/internal/model/order"
)

// NewDB opens a private in-memory sqlite database with the bridge tables migrated.
// A single connection keeps every query on the same database and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&ordermodel.Order{}, &mainmodel.Merchant{}, &mainmodel.Shop{}))
	return db
}
