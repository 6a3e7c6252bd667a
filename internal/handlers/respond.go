package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stocklens/internal/backend"
	"stocklens/internal/gateway"
	"stocklens/internal/rbac"
)

// ErrorResponse is the standardized error envelope returned to the UI.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

func newErrorResponse(code, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// writeError maps the error taxonomy onto HTTP responses. Permission
// denials and duplicate submissions never reached the network; upstream
// failures surface as a dismissible notification on the UI side, with
// state left at its last-known-good value.
func writeError(c echo.Context, err error) error {
	var notFound *backend.NotFoundError
	var fetch *backend.FetchError

	switch {
	case errors.Is(err, rbac.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, newErrorResponse("PERMISSION_DENIED", "Insufficient permissions", nil))
	case errors.Is(err, gateway.ErrDuplicateSubmission):
		return c.JSON(http.StatusConflict, newErrorResponse("DUPLICATE_SUBMISSION", "This action was already submitted", nil))
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, newErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.As(err, &fetch):
		return c.JSON(http.StatusBadGateway, newErrorResponse("UPSTREAM_ERROR", err.Error(), nil))
	}
	return c.JSON(http.StatusInternalServerError, newErrorResponse("SERVER_ERROR", "Operation could not be completed", nil))
}

func writeValidationError(c echo.Context, field, message string) error {
	return c.JSON(http.StatusBadRequest, newErrorResponse("VALIDATION_ERROR", "Validation failed", map[string]string{field: message}))
}

// idempotencyKey reads the per-action key the UI attaches to guard
// against double submission. Empty means the guard is skipped.
func idempotencyKey(c echo.Context) string {
	return c.Request().Header.Get("X-Idempotency-Key")
}
