package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
)

func createOwner(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	owner := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, db.Create(&owner).Error)
	return owner
}

func createRoom(t *testing.T, db *gorm.DB, ownerID, name string) models.Room {
	t.Helper()

	room := models.Room{
		OwnerID:     ownerID,
		Name:        name,
		Number:      name,
		MonthlyRent: 5000,
		Status:      models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func createActiveContract(t *testing.T, db *gorm.DB, roomID string) models.Contract {
	t.Helper()

	now := time.Now().UTC()
	contract := models.Contract{
		RoomID:     roomID,
		TenantName: "Somchai",
		StartDate:  now.AddDate(0, -6, 0),
		EndDate:    now.AddDate(0, 6, 0),
		Rent:       5000,
		Status:     models.ContractActive,
	}
	require.NoError(t, db.Create(&contract).Error)
	return contract
}

func createPendingInvoice(t *testing.T, db *gorm.DB, roomID, number string) models.Invoice {
	t.Helper()

	now := time.Now().UTC()
	invoice := models.Invoice{
		InvoiceNo: number,
		RoomID:    roomID,
		Amount:    5000,
		DueDate:   now.AddDate(0, 0, 14),
		IssuedAt:  now,
		Status:    models.InvoicePending,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}
