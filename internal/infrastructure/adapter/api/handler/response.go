package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidID       = "Invalid ID format"
	msgInvalidBody     = "Request body must be a JSON object"
	msgInternalError   = "Internal server error"
	msgUserLocked      = "User is busy with another operation, retry later"
	msgShuttingDown    = "Service is shutting down"
	msgRequestTimedOut = "Request timed out"
)

// parseID reads a positive integer path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidRequest,
			Message: msgInvalidID,
		})
		return 0, false
	}
	return id, true
}

// decodeJSONObject reads the request body as a JSON object, keeping numbers as
// json.Number so integers are not rounded through float64. An empty body is an
// empty object.
func decodeJSONObject(c *gin.Context) (map[string]any, bool) {
	data := map[string]any{}
	if c.Request.Body == nil {
		return data, true
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidRequest,
			Message: msgInvalidBody,
		})
		return nil, false
	}
	return data, true
}

// writeValidationErrors responds with the accumulated validation messages
func writeValidationErrors(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: messages})
}

// statusFor maps a domain error to its HTTP status
func statusFor(err error) int {
	switch {
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsUserLockedError(err):
		return http.StatusConflict
	case errors.Is(err, errs.ErrQueueClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errs.IsInvalidArgumentError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the mapped status. Messages of persistence and
// unknown errors never reach the client; fallback is sent instead.
func writeError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)

	message := fallback
	switch status {
	case http.StatusConflict:
		message = msgUserLocked
	case http.StatusServiceUnavailable:
		message = msgShuttingDown
	case http.StatusGatewayTimeout:
		message = msgRequestTimedOut
	}

	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: message,
	})
}
