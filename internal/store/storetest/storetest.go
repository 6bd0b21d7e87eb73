// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"strings"
	"testing"

	"salon-admin/internal/model"
	"salon-admin/internal/store"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory database private to t.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.Tables()...))
	return db
}

// Open returns a store whose reader and writer share one in-memory database.
func Open(t testing.TB) *store.Store {
	t.Helper()
	db := OpenDB(t)
	return store.New(db, db, 0)
}

func SeedStaff(t testing.TB, db *gorm.DB, name, email string) *model.Staff {
	t.Helper()
	m := &model.Staff{Name: name, Email: email, Role: model.RoleStaff}
	require.NoError(t, db.Create(m).Error)
	return m
}

func SeedReport(t testing.TB, db *gorm.DB, staffID, date, content string) *model.DailyReport {
	t.Helper()
	r := &model.DailyReport{StaffID: staffID, Date: date, Content: content}
	require.NoError(t, db.Create(r).Error)
	return r
}
