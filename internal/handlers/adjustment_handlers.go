package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"stocklens/internal/gateway"
	"stocklens/internal/models"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// AdjustmentAPI is the upstream surface for stock adjustments.
type AdjustmentAPI interface {
	CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error
}

type AdjustmentHandlers struct {
	api AdjustmentAPI
	gw  *gateway.Gateway
}

func NewAdjustmentHandlers(api AdjustmentAPI, gw *gateway.Gateway) *AdjustmentHandlers {
	return &AdjustmentHandlers{api: api, gw: gw}
}

// AdjustmentRequest records a manual stock correction. Quantity is always
// positive; direction is carried by adjustment_type. The server clamps
// derived quantities at zero, so no negative stock can result.
type AdjustmentRequest struct {
	ItemName string                  `json:"item_name"`
	Type     models.AdjustmentType   `json:"adjustment_type"`
	Quantity int                     `json:"quantity"`
	Reason   models.AdjustmentReason `json:"reason"`
}

func (h *AdjustmentHandlers) Create(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req AdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.ItemName == "" {
		return writeValidationError(c, "item_name", "item_name is required")
	}
	if req.Type != models.AdjustmentIncrease && req.Type != models.AdjustmentDecrease {
		return writeValidationError(c, "adjustment_type", "adjustment_type must be increase or decrease")
	}
	if req.Quantity <= 0 {
		return writeValidationError(c, "quantity", "quantity must be positive")
	}
	if !models.ValidReason(req.Reason) {
		return writeValidationError(c, "reason", "unknown adjustment reason")
	}

	adjustment := models.StockAdjustment{
		ItemName: req.ItemName,
		Type:     req.Type,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	}
	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionCreateAdjustment,
		ItemName: req.ItemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.CreateAdjustment(ctx, &adjustment)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, adjustment)
}
