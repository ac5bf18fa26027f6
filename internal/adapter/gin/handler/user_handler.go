package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
	"users-api/pkg/logger"
)

// Repository is the persistence surface the handlers depend on.
type Repository interface {
	FindAll(ctx context.Context) ([]user.User, error)
	CountAll(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	Insert(ctx context.Context, u user.User) error
	Update(ctx context.Context, u user.User) error
	Delete(ctx context.Context, id string) error
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(repo Repository, log *zap.Logger) *UserHandler {
	return &UserHandler{
		repo:     repo,
		log:      log,
		validate: validator.New(),
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Only the email format is validated; every other field is stored as
// submitted, absent fields included (they arrive as zero values).
type CreateUserRequest struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  string  `json:"email" validate:"email"`
	Age    int64   `json:"age"`
	Weight float64 `json:"weight"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Updates overwrite all five fields together; nothing is re-validated.
type UpdateUserRequest struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  string  `json:"email"`
	Age    int64   `json:"age"`
	Weight float64 `json:"weight"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  string  `json:"email"`
	Age    int64   `json:"age"`
	Weight float64 `json:"weight"`
}

// CreateUserResponse represents the HTTP response for a created user
type CreateUserResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// MessageResponse represents a confirmation message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TotalCountHeader carries the total number of records on list responses.
const TotalCountHeader = "X-Total-Count"

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
		Email:  u.Email,
		Age:    u.Age,
		Weight: u.Weight,
	}
}

// logger returns the handler logger enriched with the request ID.
func (h *UserHandler) logger(c *gin.Context) *zap.Logger {
	return logger.WithContext(c.Request.Context(), h.log)
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	log := h.logger(c)
	log.Info("ListUsers request")

	users, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		log.Error("ListUsers failed", zap.Error(err))
		h.handleError(c, err, "failed to list users")
		return
	}

	total, err := h.repo.CountAll(c.Request.Context())
	if err != nil {
		log.Error("ListUsers count failed", zap.Error(err))
		h.handleError(c, err, "failed to list users")
		return
	}

	c.Header(TotalCountHeader, fmt.Sprintf("%d", total))

	if total == 0 {
		h.handleError(c, apperrors.NewEmptyCollectionError("users"), "")
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	log := h.logger(c)
	log.Info("GetUser request", zap.String("id", id))

	u, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Error("GetUser failed", zap.Error(err), zap.String("id", id))
		}
		h.handleError(c, err, fmt.Sprintf("failed to fetch user %s", id))
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*u))
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := h.logger(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	log.Info("CreateUser request", zap.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		verr := apperrors.NewValidationError("email", formatValidationError(err))
		log.Warn("CreateUser validation failed", zap.Error(verr))
		h.handleError(c, verr, "")
		return
	}

	u := user.User{
		ID:     user.NewID(),
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Age:    req.Age,
		Weight: req.Weight,
	}

	if err := h.repo.Insert(c.Request.Context(), u); err != nil {
		log.Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{
		ID:      u.ID,
		Message: fmt.Sprintf("user %s created", u.ID),
	})
}

// UpdateUser handles PUT /v1/users/:id and PATCH /v1/users/:id.
// The existing record is fetched first so a missing id yields a 404
// before anything is written; the update then overwrites all fields.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	log := h.logger(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request", zap.Error(err), zap.String("id", id))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	log.Info("UpdateUser request", zap.String("id", id))

	if _, err := h.repo.FindByID(c.Request.Context(), id); err != nil {
		if !apperrors.IsNotFound(err) {
			log.Error("UpdateUser lookup failed", zap.Error(err), zap.String("id", id))
		}
		h.handleError(c, err, fmt.Sprintf("failed to fetch user %s", id))
		return
	}

	u := user.User{
		ID:     id,
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Age:    req.Age,
		Weight: req.Weight,
	}

	if err := h.repo.Update(c.Request.Context(), u); err != nil {
		log.Error("UpdateUser failed", zap.Error(err), zap.String("id", id))
		h.handleError(c, err, fmt.Sprintf("failed to update user %s", id))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("user %s updated", id),
	})
}

// DeleteUser handles DELETE /v1/users/:id.
// Mirrors UpdateUser: fetch first for a distinct 404, then delete.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	log := h.logger(c)
	log.Info("DeleteUser request", zap.String("id", id))

	if _, err := h.repo.FindByID(c.Request.Context(), id); err != nil {
		if !apperrors.IsNotFound(err) {
			log.Error("DeleteUser lookup failed", zap.Error(err), zap.String("id", id))
		}
		h.handleError(c, err, fmt.Sprintf("failed to fetch user %s", id))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		log.Error("DeleteUser failed", zap.Error(err), zap.String("id", id))
		h.handleError(c, err, fmt.Sprintf("failed to delete user %s", id))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("user %s deleted", id),
	})
}

// handleError converts repository errors to HTTP responses. Client-visible
// detail is limited to the typed error's message; store failures respond
// with storeMessage instead so no database detail leaks to callers.
func (h *UserHandler) handleError(c *gin.Context, err error, storeMessage string) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
		})
		return
	}

	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: nf.Error(),
		})
		return
	}

	var ec *apperrors.EmptyCollectionError
	if errors.As(err, &ec) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "empty_collection",
			Message: ec.Error(),
		})
		return
	}

	if storeMessage == "" {
		storeMessage = "an internal error occurred"
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: storeMessage,
	})
}

// formatValidationError converts validator errors into client-facing text.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "email":
				msgs = append(msgs, fmt.Sprintf("%q is not a valid email address", fe.Value()))
			default:
				msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
			}
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}
