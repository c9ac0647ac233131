package handler

import (
	"errors"
	"fmt"
	"net/http"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/validation"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const msgDuplicateEmail = "User with this email address already exists"

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	userUseCase usecase.UserUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// ListUsers handles the GET /users endpoint
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userUseCase.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing users", map[string]any{"error": err.Error()})
		writeError(c, err, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// CreateUser handles the POST /users endpoint
func (h *UserHandler) CreateUser(c *gin.Context) {
	body, ok := decodeJSONObject(c)
	if !ok {
		return
	}

	if messages := validation.RequiredFields(body, validation.UserRules, validation.Strict); len(messages) > 0 {
		writeValidationErrors(c, messages)
		return
	}

	email, _ := body["email"].(string)
	name, _ := body["name"].(string)

	user, err := h.userUseCase.CreateUser(c.Request.Context(), email, name, 0)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidEmail):
			writeValidationErrors(c, []string{validation.MsgEmailRequired})
		case errors.Is(err, errs.ErrInvalidName):
			writeValidationErrors(c, []string{validation.MsgNameRequired})
		case errors.Is(err, errs.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    errs.CodeDuplicateEmail,
				Message: msgDuplicateEmail,
			})
		default:
			h.logger.Error("Error creating user", map[string]any{"error": err.Error()})
			writeError(c, err, "Failed to create user")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GetUser handles the GET /users/:id endpoint
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		if !errs.IsNotFoundError(err) {
			h.logger.Error("Error getting user", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		writeError(c, err, userMessage(err, userID, msgInternalError))
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser handles the DELETE /users/:id endpoint
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), userID); err != nil {
		if !errs.IsNotFoundError(err) {
			h.logger.Error("Error deleting user", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		writeError(c, err, userMessage(err, userID, "Failed to delete user"))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User with id %d was deleted", userID),
	})
}

// userMessage returns the not-found message for unknown users and fallback otherwise
func userMessage(err error, userID uint64, fallback string) string {
	if errors.Is(err, errs.ErrUserNotFound) {
		return fmt.Sprintf("User with id %d not found", userID)
	}
	return fallback
}
