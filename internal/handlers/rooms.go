package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// RoomHandler exposes CRUD endpoints over the authenticated owner's rooms.
type RoomHandler struct {
	rooms *services.RoomService
}

// NewRoomHandler constructs a room handler.
func NewRoomHandler(db *gorm.DB, activity *services.ActivityService) (*RoomHandler, error) {
	rooms, err := services.NewRoomService(db, activity)
	if err != nil {
		return nil, err
	}
	return &RoomHandler{rooms: rooms}, nil
}

type createRoomRequest struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Number      string  `json:"number"`
	Floor       int     `json:"floor"`
	SizeSqm     float64 `json:"size_sqm"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gte=0"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

type updateRoomRequest struct {
	Name        *string  `json:"name"`
	Number      *string  `json:"number"`
	Floor       *int     `json:"floor"`
	SizeSqm     *float64 `json:"size_sqm"`
	MonthlyRent *float64 `json:"monthly_rent"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
}

// POST /api/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}

	room, err := h.rooms.Create(requestContext(c), userID, services.CreateRoomInput{
		Name:        req.Name,
		Number:      req.Number,
		Floor:       req.Floor,
		SizeSqm:     req.SizeSqm,
		MonthlyRent: req.MonthlyRent,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, room)
}

// GET /api/rooms
func (h *RoomHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 25)

	rooms, total, err := h.rooms.List(requestContext(c), userID, services.ListRoomsOptions{
		Page:     page,
		PageSize: pageSize,
		Filters: services.RoomFilters{
			Status: strings.TrimSpace(c.Query("status")),
			Query:  strings.TrimSpace(c.Query("q")),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, rooms, pageMeta(page, pageSize, total))
}

// GET /api/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	room, err := h.rooms.GetByID(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, room)
}

// PUT /api/rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}

	room, err := h.rooms.Update(requestContext(c), userID, strings.TrimSpace(c.Param("id")), services.UpdateRoomInput{
		Name:        req.Name,
		Number:      req.Number,
		Floor:       req.Floor,
		SizeSqm:     req.SizeSqm,
		MonthlyRent: req.MonthlyRent,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, room)
}

// DELETE /api/rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.rooms.Delete(requestContext(c), userID, strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
