package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stocklens/internal/gateway"
	"stocklens/internal/models"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// BatchAPI is the upstream surface for batch tracking.
type BatchAPI interface {
	CreateBatch(ctx context.Context, batch *models.Batch) error
	UpdateBatch(ctx context.Context, batch *models.Batch) error
	DeleteBatch(ctx context.Context, id uuid.UUID) error
}

type BatchHandlers struct {
	api BatchAPI
	gw  *gateway.Gateway
}

func NewBatchHandlers(api BatchAPI, gw *gateway.Gateway) *BatchHandlers {
	return &BatchHandlers{api: api, gw: gw}
}

// BatchRequest is the create/update payload for a batch. Batch mutations
// change item rows but never supplier quotes, so no quote entry is
// busted for them.
type BatchRequest struct {
	BatchNumber string             `json:"batch_number"`
	ItemName    string             `json:"item_name"`
	ExpiryDate  *string            `json:"expiry_date"`
	Status      models.BatchStatus `json:"status"`
}

func (r *BatchRequest) validate(c echo.Context) (ok bool, handled error) {
	if r.BatchNumber == "" {
		return false, writeValidationError(c, "batch_number", "batch_number is required")
	}
	if r.ItemName == "" {
		return false, writeValidationError(c, "item_name", "item_name is required")
	}
	if r.Status == "" {
		r.Status = models.BatchActive
	}
	if !models.ValidBatchStatus(r.Status) {
		return false, writeValidationError(c, "status", "status must be one of: active, expired, recalled, quarantined, sold_out")
	}
	return true, nil
}

func (r *BatchRequest) expiry(c echo.Context) (*time.Time, bool, error) {
	if r.ExpiryDate == nil || *r.ExpiryDate == "" {
		return nil, true, nil
	}
	parsed, err := time.Parse("2006-01-02", *r.ExpiryDate)
	if err != nil {
		return nil, false, writeValidationError(c, "expiry_date", "expiry_date must be in YYYY-MM-DD format")
	}
	return &parsed, true, nil
}

func (h *BatchHandlers) Create(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.validate(c); !ok {
		return handled
	}
	expiry, ok, handled := req.expiry(c)
	if !ok {
		return handled
	}

	batch := models.Batch{
		ID:          uuid.New(),
		BatchNumber: req.BatchNumber,
		ItemName:    req.ItemName,
		ExpiryDate:  expiry,
		Status:      req.Status,
	}
	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionCreateBatch,
		ItemName: req.ItemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.CreateBatch(ctx, &batch)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, batch)
}

func (h *BatchHandlers) Update(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.validate(c); !ok {
		return handled
	}
	expiry, ok, handled := req.expiry(c)
	if !ok {
		return handled
	}

	batch := models.Batch{
		ID:          batchID,
		BatchNumber: req.BatchNumber,
		ItemName:    req.ItemName,
		ExpiryDate:  expiry,
		Status:      req.Status,
	}
	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionUpdateBatch,
		ItemName: req.ItemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.UpdateBatch(ctx, &batch)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, batch)
}

func (h *BatchHandlers) Delete(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}

	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action: rbac.ActionDeleteBatch,
		Key:    idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.DeleteBatch(ctx, batchID)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
