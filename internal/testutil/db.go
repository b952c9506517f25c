// Package testutil provides shared helpers for package tests: an
// in-memory database, storage and notifier fakes, and fixture builders.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vinhtqfx07044/laptop/internal/domain"
)

var testDBCounter atomic.Int64

// SetupTestDB creates an in-memory database with the full schema.
// Each call returns a fresh, isolated database. The shared-cache DSN
// makes every pooled connection see the same in-memory database; a
// plain ":memory:" DSN gives each connection its own empty one.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.ServiceItem{},
		&domain.Request{},
		&domain.RequestItem{},
		&domain.RequestHistory{},
		&domain.RequestImage{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// CreateTestServiceItem inserts a catalog entry and returns it.
func CreateTestServiceItem(t *testing.T, db *gorm.DB, name string, price string) *domain.ServiceItem {
	t.Helper()

	item := &domain.ServiceItem{
		Name:         name,
		Price:        decimal.RequireFromString(price),
		VATRate:      decimal.RequireFromString("0.1"),
		WarrantyDays: 30,
		Active:       true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateTestRequest inserts a repair request with no items and returns it.
func CreateTestRequest(t *testing.T, db *gorm.DB, name string, status domain.RequestStatus) *domain.Request {
	t.Helper()

	request := &domain.Request{
		Name:            name,
		Phone:           "0901234567",
		Email:           "test@example.com",
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Description:     "Máy không lên nguồn, cần kiểm tra",
		Status:          status,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

// AttachTestItem inserts a request item snapshotted from the given
// catalog entry.
func AttachTestItem(t *testing.T, db *gorm.DB, requestID uuid.UUID, catalog *domain.ServiceItem, quantity int) *domain.RequestItem {
	t.Helper()

	item := &domain.RequestItem{
		RequestID:     requestID,
		ServiceItemID: catalog.ID,
		Name:          catalog.Name,
		Price:         catalog.Price,
		VATRate:       catalog.VATRate,
		WarrantyDays:  catalog.WarrantyDays,
		Quantity:      quantity,
		Discount:      decimal.Zero,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// Ctx returns a plain background context for tests.
func Ctx() context.Context {
	return context.Background()
}
