package database

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	owner := models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}

	room := models.Room{OwnerID: owner.ID, Name: "Studio", Number: "101", MonthlyRent: 4500}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}

	invoice := models.Invoice{
		InvoiceNo: "INV-2026-0001",
		RoomID:    room.ID,
		Amount:    4500,
		DueDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		IssuedAt:  time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	var count int64
	if err := db.Model(&models.Invoice{}).Where("status = ?", models.InvoicePending).Count(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected pending status default, got %d pending invoices", count)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
