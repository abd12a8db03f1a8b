package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// ContractHandler exposes the lease contract lifecycle over HTTP.
type ContractHandler struct {
	contracts *services.ContractService
}

// NewContractHandler constructs a contract handler.
func NewContractHandler(db *gorm.DB, hub *notifications.Hub, activity *services.ActivityService) (*ContractHandler, error) {
	contracts, err := services.NewContractService(db, hub, activity)
	if err != nil {
		return nil, err
	}
	return &ContractHandler{contracts: contracts}, nil
}

type createContractRequest struct {
	RoomID      string    `json:"room_id" validate:"required"`
	TenantName  string    `json:"tenant_name" validate:"required,max=128"`
	TenantPhone string    `json:"tenant_phone"`
	TenantEmail string    `json:"tenant_email" validate:"omitempty,email"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Rent        float64   `json:"rent" validate:"gt=0"`
	Deposit     float64   `json:"deposit" validate:"gte=0"`
	Note        string    `json:"note"`
	Activate    bool      `json:"activate"`
}

type updateContractRequest struct {
	TenantName  *string    `json:"tenant_name"`
	TenantPhone *string    `json:"tenant_phone"`
	TenantEmail *string    `json:"tenant_email"`
	EndDate     *time.Time `json:"end_date"`
	Rent        *float64   `json:"rent"`
	Deposit     *float64   `json:"deposit"`
	Note        *string    `json:"note"`
}

type terminateContractRequest struct {
	Reason string `json:"reason"`
}

// POST /api/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createContractRequest
	if !bindAndValidate(c, &req) {
		return
	}

	contract, err := h.contracts.Create(requestContext(c), userID, services.CreateContractInput{
		RoomID:      req.RoomID,
		TenantName:  req.TenantName,
		TenantPhone: req.TenantPhone,
		TenantEmail: req.TenantEmail,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Rent:        req.Rent,
		Deposit:     req.Deposit,
		Note:        req.Note,
		Activate:    req.Activate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, contract)
}

// GET /api/contracts
func (h *ContractHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 25)

	contracts, total, err := h.contracts.List(requestContext(c), userID, services.ListContractsOptions{
		Page:     page,
		PageSize: pageSize,
		Filters: services.ContractFilters{
			Status: strings.TrimSpace(c.Query("status")),
			RoomID: strings.TrimSpace(c.Query("room_id")),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, contracts, pageMeta(page, pageSize, total))
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	contract, err := h.contracts.GetByID(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, contract)
}

// PUT /api/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateContractRequest
	if !bindAndValidate(c, &req) {
		return
	}

	contract, err := h.contracts.Update(requestContext(c), userID, strings.TrimSpace(c.Param("id")), services.UpdateContractInput{
		TenantName:  req.TenantName,
		TenantPhone: req.TenantPhone,
		TenantEmail: req.TenantEmail,
		EndDate:     req.EndDate,
		Rent:        req.Rent,
		Deposit:     req.Deposit,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, contract)
}

// POST /api/contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	contract, err := h.contracts.Activate(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, contract)
}

// POST /api/contracts/:id/terminate
func (h *ContractHandler) Terminate(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req terminateContractRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}

	contract, err := h.contracts.Terminate(requestContext(c), userID, strings.TrimSpace(c.Param("id")), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, contract)
}
