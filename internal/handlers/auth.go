package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/GaiKT/rentflow/internal/auth"
	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/metrics"
	"github.com/GaiKT/rentflow/pkg/response"
)

// AuthHandler manages authentication flows (register/login/refresh/me).
type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService, activity *services.ActivityService) (*AuthHandler, error) {
	users, err := services.NewUserService(db, activity)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, jwt: jwt}, nil
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	PromptPayID string `json:"promptpay_id" validate:"omitempty,promptpay"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Create(requestContext(c), services.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		PromptPayID: req.PromptPayID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, userPayload(user))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Identifier, req.Password, c.ClientIP())
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		// Normalise auth errors to 401 except the inactive-account case
		if appErr := errors.FromError(err); appErr.StatusCode == http.StatusForbidden {
			response.Error(c, err)
			return
		}
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInternalServer)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   userPayload(user),
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims, err := h.jwt.ValidateRefreshToken(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	// The account may have been deactivated since the token was issued.
	user, err := h.users.GetByID(requestContext(c), claims.UserID)
	if err != nil || !user.IsActive {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		response.Error(c, errors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetByID(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, userPayload(user))
}

type updateProfileRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	PromptPayID *string `json:"promptpay_id" validate:"omitempty,promptpay"`
}

// PUT /api/auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Update(requestContext(c), userID, services.UpdateUserInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		PromptPayID: req.PromptPayID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, userPayload(user))
}

// POST /api/auth/logout
//
// Tokens are stateless, so logout is a client-side discard. The endpoint
// exists so the frontend has a single call that also lands in the access log.
func (h *AuthHandler) Logout(c *gin.Context) {
	if currentUserID(c) == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.users.ChangePassword(requestContext(c), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

func (h *AuthHandler) issueTokens(userID string) (tokenResponse, error) {
	access, err := h.jwt.GenerateAccessToken(userID)
	if err != nil {
		return tokenResponse{}, err
	}
	refresh, err := h.jwt.GenerateRefreshToken(userID)
	if err != nil {
		return tokenResponse{}, err
	}
	return tokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone":        user.Phone,
		"promptpay_id": user.PromptPayID,
		"is_active":    user.IsActive,
	}
}
