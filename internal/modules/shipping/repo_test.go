package shipping

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "shipping.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&ShippingRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUpdateStatusInTx(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	now := time.Now()
	rec := ShippingRecord{
		ID:             "6f1a2b3c-0000-0000-0000-000000000001",
		OrderID:        "9d8c7b6a-0000-0000-0000-000000000001",
		ShippingStatus: StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	t.Run("moves the existing record", func(t *testing.T) {
		if err := UpdateStatusInTx(ctx, db, rec.OrderID, StatusReadyToShip); err != nil {
			t.Fatalf("UpdateStatusInTx: %v", err)
		}
		var got ShippingRecord
		if err := db.First(&got, "order_id = ?", rec.OrderID).Error; err != nil {
			t.Fatalf("reload record: %v", err)
		}
		if got.ShippingStatus != StatusReadyToShip {
			t.Errorf("ShippingStatus = %q, want %q", got.ShippingStatus, StatusReadyToShip)
		}
	})

	t.Run("missing record surfaces a storage error", func(t *testing.T) {
		err := UpdateStatusInTx(ctx, db, "9d8c7b6a-0000-0000-0000-00000000dead", StatusCanceled)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
		}
	})
}
