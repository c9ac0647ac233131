package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/validation"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const msgPointsUpdated = "Points Balance Updated"

// TransactionHandler handles point changes and ledger queries
type TransactionHandler struct {
	ledger usecase.LedgerUseCase
	users  usecase.UserUseCase
	logger coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	ledger usecase.LedgerUseCase,
	users usecase.UserUseCase,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		users:  users,
		logger: logger,
	}
}

// Earn handles the POST /users/:id/earn endpoint
func (h *TransactionHandler) Earn(c *gin.Context) {
	h.changePoints(c, entity.DirectionEarn)
}

// Redeem handles the POST /users/:id/redeem endpoint
func (h *TransactionHandler) Redeem(c *gin.Context) {
	h.changePoints(c, entity.DirectionRedeem)
}

// changePoints checks the user exists, then validates the body, then applies the change
func (h *TransactionHandler) changePoints(c *gin.Context, direction entity.Direction) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetUser(ctx, userID); err != nil {
		if !errs.IsNotFoundError(err) {
			h.logger.Error("Error checking user existence", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		writeError(c, err, userMessage(err, userID, msgInternalError))
		return
	}

	body, ok := decodeJSONObject(c)
	if !ok {
		return
	}

	if messages := validation.RequiredFields(body, validation.PointsRules, validation.Strict); len(messages) > 0 {
		writeValidationErrors(c, messages)
		return
	}

	description, _ := body["description"].(string)
	points, _ := validation.Normalize(body["points"]).(int64)

	err := h.apply(ctx, direction, userID, description, points)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageResponse{Message: msgPointsUpdated})
	case errors.Is(err, errs.ErrNegativeBalance):
		writeValidationErrors(c, []string{validation.MsgNegativeBalance})
	case errors.Is(err, errs.ErrBalanceOverflow):
		writeValidationErrors(c, []string{validation.MsgBalanceOverflow})
	case errors.Is(err, errs.ErrInvalidPoints):
		writeValidationErrors(c, []string{validation.MsgPointsPositive})
	case errors.Is(err, errs.ErrEmptyDescription):
		writeValidationErrors(c, []string{validation.MsgDescriptionRequired})
	default:
		writeError(c, err, userMessage(err, userID, fmt.Sprintf("Failed to update points balance for User id %d", userID)))
	}
}

func (h *TransactionHandler) apply(ctx context.Context, direction entity.Direction, userID uint64, description string, points int64) error {
	if direction == entity.DirectionRedeem {
		return h.ledger.Redeem(ctx, userID, description, points)
	}
	return h.ledger.Earn(ctx, userID, description, points)
}

// ListUserTransactions handles the GET /users/:id/transactions endpoint
func (h *TransactionHandler) ListUserTransactions(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	txs, err := h.ledger.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		if !errs.IsNotFoundError(err) {
			h.logger.Error("Error listing transactions", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		writeError(c, err, userMessage(err, userID, "Failed to retrieve transactions"))
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionListResponse(txs))
}

// GetTransaction handles the GET /transactions/:id endpoint
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.ledger.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		message := msgInternalError
		if errors.Is(err, errs.ErrTransactionNotFound) {
			message = fmt.Sprintf("Transaction with id %d not found", transactionID)
		} else {
			h.logger.Error("Error getting transaction", map[string]any{
				"transaction_id": transactionID,
				"error":          err.Error(),
			})
		}
		writeError(c, err, message)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}
