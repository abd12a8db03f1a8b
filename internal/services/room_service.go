package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

// CreateRoomInput describes the fields accepted when registering a room.
type CreateRoomInput struct {
	Name        string
	Number      string
	Floor       int
	SizeSqm     float64
	MonthlyRent float64
	Description string
	Status      string
}

// UpdateRoomInput enumerates mutable room attributes.
type UpdateRoomInput struct {
	Name        *string
	Number      *string
	Floor       *int
	SizeSqm     *float64
	MonthlyRent *float64
	Description *string
	Status      *string
}

// RoomFilters captures listing filters.
type RoomFilters struct {
	Status string
	Query  string
}

// ListRoomsOptions controls pagination for room listing.
type ListRoomsOptions struct {
	Page     int
	PageSize int
	Filters  RoomFilters
}

// RoomService manages the CRUD lifecycle for rooms. Every operation is scoped
// to the owning user; a room id from another owner behaves as not found.
type RoomService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewRoomService constructs a RoomService instance.
func NewRoomService(db *gorm.DB, activity *ActivityService) (*RoomService, error) {
	if db == nil {
		return nil, errors.New("room service: db is required")
	}
	return &RoomService{db: db, activity: activity}, nil
}

// Create registers a new room under the supplied owner.
func (s *RoomService) Create(ctx context.Context, ownerID string, input CreateRoomInput) (*models.Room, error) {
	ctx = ensureContext(ctx)

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.NewBadRequest("owner id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("room name is required")
	}
	if input.MonthlyRent < 0 {
		return nil, apperrors.NewBadRequest("monthly rent cannot be negative")
	}

	status := defaultIfEmpty(input.Status, models.RoomAvailable)
	if !models.ValidRoomStatus(status) {
		return nil, apperrors.NewBadRequest("invalid room status")
	}

	room := &models.Room{
		OwnerID:     ownerID,
		Name:        name,
		Number:      strings.TrimSpace(input.Number),
		Floor:       input.Floor,
		SizeSqm:     input.SizeSqm,
		MonthlyRent: input.MonthlyRent,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}

	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return nil, fmt.Errorf("room service: create room: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "room.create",
		Resource: room.ID,
		Result:   "success",
		Metadata: map[string]any{"name": room.Name, "number": room.Number},
	})

	return room, nil
}

// GetByID loads a room owned by the supplied user.
func (s *RoomService) GetByID(ctx context.Context, ownerID, roomID string) (*models.Room, error) {
	ctx = ensureContext(ctx)

	var room models.Room
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", strings.TrimSpace(roomID), strings.TrimSpace(ownerID)).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("room service: load room: %w", err)
	}
	return &room, nil
}

// List returns the owner's rooms with optional status and text filters.
func (s *RoomService) List(ctx context.Context, ownerID string, opts ListRoomsOptions) ([]models.Room, int64, error) {
	ctx = ensureContext(ctx)

	page, pageSize := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Room{}).
		Where("owner_id = ?", strings.TrimSpace(ownerID))

	if status := strings.TrimSpace(opts.Filters.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if text := strings.TrimSpace(opts.Filters.Query); text != "" {
		like := "%" + text + "%"
		query = query.Where("name LIKE ? OR number LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("room service: count rooms: %w", err)
	}

	var rooms []models.Room
	if err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rooms).Error; err != nil {
		return nil, 0, fmt.Errorf("room service: list rooms: %w", err)
	}

	return rooms, total, nil
}

// Update applies changes to a room owned by the supplied user.
func (s *RoomService) Update(ctx context.Context, ownerID, roomID string, input UpdateRoomInput) (*models.Room, error) {
	ctx = ensureContext(ctx)

	room, err := s.GetByID(ctx, ownerID, roomID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("room name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Number != nil {
		updates["number"] = strings.TrimSpace(*input.Number)
	}
	if input.Floor != nil {
		updates["floor"] = *input.Floor
	}
	if input.SizeSqm != nil {
		updates["size_sqm"] = *input.SizeSqm
	}
	if input.MonthlyRent != nil {
		if *input.MonthlyRent < 0 {
			return nil, apperrors.NewBadRequest("monthly rent cannot be negative")
		}
		updates["monthly_rent"] = *input.MonthlyRent
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !models.ValidRoomStatus(status) {
			return nil, apperrors.NewBadRequest("invalid room status")
		}
		updates["status"] = status
	}

	if len(updates) == 0 {
		return room, nil
	}

	if err := s.db.WithContext(ctx).Model(room).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("room service: update room: %w", err)
	}

	return s.GetByID(ctx, ownerID, roomID)
}

// Delete removes a room without active contracts or unsettled invoices.
// Settled billing history (paid or cancelled invoices, their receipts, and
// ended contracts) is removed with the room so foreign keys stay satisfied.
func (s *RoomService) Delete(ctx context.Context, ownerID, roomID string) error {
	ctx = ensureContext(ctx)

	room, err := s.GetByID(ctx, ownerID, roomID)
	if err != nil {
		return err
	}

	var activeContracts int64
	if err := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("room_id = ? AND status = ?", room.ID, models.ContractActive).
		Count(&activeContracts).Error; err != nil {
		return fmt.Errorf("room service: count contracts: %w", err)
	}
	if activeContracts > 0 {
		return apperrors.NewConflict("room has an active contract")
	}

	var openInvoices int64
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("room_id = ? AND status IN ?", room.ID, []string{models.InvoicePending, models.InvoiceOverdue}).
		Count(&openInvoices).Error; err != nil {
		return fmt.Errorf("room service: count invoices: %w", err)
	}
	if openInvoices > 0 {
		return apperrors.NewConflict("room has unsettled invoices")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiceIDs := tx.Model(&models.Invoice{}).Select("id").Where("room_id = ?", room.ID)
		if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&models.Receipt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Contract{}).Error; err != nil {
			return err
		}
		return tx.Delete(room).Error
	})
	if err != nil {
		return fmt.Errorf("room service: delete room: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "room.delete",
		Resource: room.ID,
		Result:   "success",
	})

	return nil
}
