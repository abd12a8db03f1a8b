package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

// CreateContractInput describes the fields accepted when creating a lease contract.
type CreateContractInput struct {
	RoomID      string
	TenantName  string
	TenantPhone string
	TenantEmail string
	StartDate   time.Time
	EndDate     time.Time
	Rent        float64
	Deposit     float64
	Note        string

	// Activate immediately marks the contract ACTIVE and the room OCCUPIED.
	Activate bool
}

// UpdateContractInput enumerates mutable contract attributes.
type UpdateContractInput struct {
	TenantName  *string
	TenantPhone *string
	TenantEmail *string
	EndDate     *time.Time
	Rent        *float64
	Deposit     *float64
	Note        *string
}

// ContractFilters captures listing filters.
type ContractFilters struct {
	Status string
	RoomID string
}

// ListContractsOptions controls pagination for contract listing.
type ListContractsOptions struct {
	Page     int
	PageSize int
	Filters  ContractFilters
}

// ContractService manages the lease contract lifecycle. All operations are
// scoped to the owner of the contract's room.
type ContractService struct {
	db       *gorm.DB
	hub      *notifications.Hub
	activity *ActivityService
}

// NewContractService constructs a ContractService instance.
func NewContractService(db *gorm.DB, hub *notifications.Hub, activity *ActivityService) (*ContractService, error) {
	if db == nil {
		return nil, errors.New("contract service: db is required")
	}
	return &ContractService{db: db, hub: hub, activity: activity}, nil
}

// Create registers a lease contract for one of the owner's rooms.
func (s *ContractService) Create(ctx context.Context, ownerID string, input CreateContractInput) (*models.Contract, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.TenantName) == "" {
		return nil, apperrors.NewBadRequest("tenant name is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.NewBadRequest("start and end dates are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.NewBadRequest("end date must be after start date")
	}
	if input.Rent < 0 || input.Deposit < 0 {
		return nil, apperrors.NewBadRequest("rent and deposit cannot be negative")
	}

	room, err := s.loadRoom(ctx, ownerID, input.RoomID)
	if err != nil {
		return nil, err
	}

	if input.Activate {
		var active int64
		if err := s.db.WithContext(ctx).Model(&models.Contract{}).
			Where("room_id = ? AND status = ?", room.ID, models.ContractActive).
			Count(&active).Error; err != nil {
			return nil, fmt.Errorf("contract service: count active contracts: %w", err)
		}
		if active > 0 {
			return nil, apperrors.NewConflict("room already has an active contract")
		}
	}

	contract := &models.Contract{
		RoomID:      room.ID,
		TenantName:  strings.TrimSpace(input.TenantName),
		TenantPhone: strings.TrimSpace(input.TenantPhone),
		TenantEmail: strings.ToLower(strings.TrimSpace(input.TenantEmail)),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Rent:        input.Rent,
		Deposit:     input.Deposit,
		Status:      models.ContractPending,
		Note:        strings.TrimSpace(input.Note),
	}
	if input.Activate {
		contract.Status = models.ContractActive
	}

	var broadcast func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return fmt.Errorf("create contract: %w", err)
		}

		if input.Activate {
			if err := tx.Model(&models.Room{}).
				Where("id = ?", room.ID).
				Update("status", models.RoomOccupied).Error; err != nil {
				return fmt.Errorf("mark room occupied: %w", err)
			}
		}

		notice := models.Notification{
			UserID:  ownerID,
			Type:    models.NotifyContractCreated,
			Title:   "สร้างสัญญาเช่าใหม่",
			Message: fmt.Sprintf("สร้างสัญญาเช่าห้อง %s ให้ %s ถึงวันที่ %s", room.Name, contract.TenantName, contract.EndDate.Format("02/01/2006")),
			Metadata: metadataJSON(map[string]any{
				"contract_id": contract.ID,
				"room_id":     room.ID,
			}),
		}
		broadcast, err = emitNotification(ctx, tx, s.hub, notice)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("contract service: create contract: %w", err)
	}
	broadcast()

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "contract.create",
		Resource: contract.ID,
		Result:   "success",
		Metadata: map[string]any{"room_id": room.ID, "tenant": contract.TenantName},
	})

	return s.GetByID(ctx, ownerID, contract.ID)
}

// GetByID loads a contract whose room belongs to the supplied owner.
func (s *ContractService) GetByID(ctx context.Context, ownerID, contractID string) (*models.Contract, error) {
	ctx = ensureContext(ctx)

	var contract models.Contract
	err := s.db.WithContext(ctx).
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = contracts.room_id").
		Where("contracts.id = ? AND rooms.owner_id = ?", strings.TrimSpace(contractID), strings.TrimSpace(ownerID)).
		First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract service: load contract: %w", err)
	}
	return &contract, nil
}

// List returns the owner's contracts with optional status and room filters.
func (s *ContractService) List(ctx context.Context, ownerID string, opts ListContractsOptions) ([]models.Contract, int64, error) {
	ctx = ensureContext(ctx)

	page, pageSize := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Contract{}).
		Joins("JOIN rooms ON rooms.id = contracts.room_id").
		Where("rooms.owner_id = ?", strings.TrimSpace(ownerID))

	if status := strings.TrimSpace(opts.Filters.Status); status != "" {
		query = query.Where("contracts.status = ?", status)
	}
	if roomID := strings.TrimSpace(opts.Filters.RoomID); roomID != "" {
		query = query.Where("contracts.room_id = ?", roomID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("contract service: count contracts: %w", err)
	}

	var contracts []models.Contract
	if err := query.
		Preload("Room").
		Order("contracts.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("contract service: list contracts: %w", err)
	}

	return contracts, total, nil
}

// Update applies changes to a contract that is not yet terminated.
func (s *ContractService) Update(ctx context.Context, ownerID, contractID string, input UpdateContractInput) (*models.Contract, error) {
	ctx = ensureContext(ctx)

	contract, err := s.GetByID(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == models.ContractTerminated {
		return nil, apperrors.NewConflict("contract is terminated")
	}

	updates := map[string]any{}
	if input.TenantName != nil {
		name := strings.TrimSpace(*input.TenantName)
		if name == "" {
			return nil, apperrors.NewBadRequest("tenant name cannot be empty")
		}
		updates["tenant_name"] = name
	}
	if input.TenantPhone != nil {
		updates["tenant_phone"] = strings.TrimSpace(*input.TenantPhone)
	}
	if input.TenantEmail != nil {
		updates["tenant_email"] = strings.ToLower(strings.TrimSpace(*input.TenantEmail))
	}
	if input.EndDate != nil {
		if !input.EndDate.After(contract.StartDate) {
			return nil, apperrors.NewBadRequest("end date must be after start date")
		}
		updates["end_date"] = *input.EndDate
	}
	if input.Rent != nil {
		if *input.Rent < 0 {
			return nil, apperrors.NewBadRequest("rent cannot be negative")
		}
		updates["rent"] = *input.Rent
	}
	if input.Deposit != nil {
		if *input.Deposit < 0 {
			return nil, apperrors.NewBadRequest("deposit cannot be negative")
		}
		updates["deposit"] = *input.Deposit
	}
	if input.Note != nil {
		updates["note"] = strings.TrimSpace(*input.Note)
	}

	if len(updates) == 0 {
		return contract, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ?", contract.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("contract service: update contract: %w", err)
	}

	return s.GetByID(ctx, ownerID, contractID)
}

// Activate transitions a pending contract to ACTIVE and occupies the room.
func (s *ContractService) Activate(ctx context.Context, ownerID, contractID string) (*models.Contract, error) {
	ctx = ensureContext(ctx)

	contract, err := s.GetByID(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractPending {
		return nil, apperrors.NewConflict("only pending contracts can be activated")
	}

	var active int64
	if err := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("room_id = ? AND status = ?", contract.RoomID, models.ContractActive).
		Count(&active).Error; err != nil {
		return nil, fmt.Errorf("contract service: count active contracts: %w", err)
	}
	if active > 0 {
		return nil, apperrors.NewConflict("room already has an active contract")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Contract{}).
			Where("id = ?", contract.ID).
			Update("status", models.ContractActive).Error; err != nil {
			return fmt.Errorf("activate contract: %w", err)
		}
		return tx.Model(&models.Room{}).
			Where("id = ?", contract.RoomID).
			Update("status", models.RoomOccupied).Error
	})
	if err != nil {
		return nil, fmt.Errorf("contract service: activate contract: %w", err)
	}

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "contract.activate",
		Resource: contract.ID,
		Result:   "success",
	})

	return s.GetByID(ctx, ownerID, contractID)
}

// Terminate ends a contract early, frees the room and notifies the owner.
func (s *ContractService) Terminate(ctx context.Context, ownerID, contractID, reason string) (*models.Contract, error) {
	ctx = ensureContext(ctx)

	contract, err := s.GetByID(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == models.ContractTerminated {
		return nil, apperrors.NewConflict("contract is already terminated")
	}

	wasActive := contract.Status == models.ContractActive
	now := time.Now().UTC()

	var broadcast func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Contract{}).
			Where("id = ?", contract.ID).
			Updates(map[string]any{
				"status":        models.ContractTerminated,
				"terminated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("terminate contract: %w", err)
		}

		if wasActive {
			if err := tx.Model(&models.Room{}).
				Where("id = ?", contract.RoomID).
				Update("status", models.RoomAvailable).Error; err != nil {
				return fmt.Errorf("release room: %w", err)
			}
		}

		notice := models.Notification{
			UserID:   ownerID,
			Type:     models.NotifyContractTerminated,
			Title:    "ยกเลิกสัญญาเช่า",
			Message:  fmt.Sprintf("ยกเลิกสัญญาเช่าห้อง %s ของ %s แล้ว", roomNameOrID(contract), contract.TenantName),
			Severity: "warning",
			Metadata: metadataJSON(map[string]any{
				"contract_id": contract.ID,
				"room_id":     contract.RoomID,
				"reason":      strings.TrimSpace(reason),
			}),
		}
		broadcast, err = emitNotification(ctx, tx, s.hub, notice)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("contract service: terminate contract: %w", err)
	}
	broadcast()

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "contract.terminate",
		Resource: contract.ID,
		Result:   "success",
		Metadata: map[string]any{"reason": strings.TrimSpace(reason)},
	})

	return s.GetByID(ctx, ownerID, contractID)
}

// MarkExpired flags active contracts whose end date passed. It is called by
// the maintenance scheduler and returns the number of contracts transitioned.
func (s *ContractService) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("status = ? AND end_date < ?", models.ContractActive, now).
		Update("status", models.ContractExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("contract service: mark expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *ContractService) loadRoom(ctx context.Context, ownerID, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", strings.TrimSpace(roomID), strings.TrimSpace(ownerID)).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract service: load room: %w", err)
	}
	return &room, nil
}

func roomNameOrID(contract *models.Contract) string {
	if contract.Room != nil && contract.Room.Name != "" {
		return contract.Room.Name
	}
	return contract.RoomID
}
