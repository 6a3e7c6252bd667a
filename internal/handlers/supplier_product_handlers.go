package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stocklens/internal/gateway"
	"stocklens/internal/models"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// SupplierProductAPI is the upstream surface for supplier-product links.
type SupplierProductAPI interface {
	CreateSupplierProduct(ctx context.Context, quote *models.SupplierQuote) error
	UpdateSupplierProduct(ctx context.Context, id uuid.UUID, quote *models.SupplierQuote) error
	DeleteSupplierProduct(ctx context.Context, id uuid.UUID) error
}

// SupplierProductHandlers mutates supplier quotes. Every successful write
// busts the affected item's quote entry so the best supplier is
// recomputed from fresh data.
type SupplierProductHandlers struct {
	api SupplierProductAPI
	gw  *gateway.Gateway
}

func NewSupplierProductHandlers(api SupplierProductAPI, gw *gateway.Gateway) *SupplierProductHandlers {
	return &SupplierProductHandlers{api: api, gw: gw}
}

// SupplierProductRequest is the create/update payload for a quote.
type SupplierProductRequest struct {
	SupplierID      string          `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	ItemName        string          `json:"item_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsAvailable     bool            `json:"is_available"`
	LeadTimeDays    *int            `json:"lead_time_days"`
	MinimumOrderQty *int            `json:"minimum_order_quantity"`
}

func (r *SupplierProductRequest) validate(c echo.Context) (ok bool, handled error) {
	if r.ItemName == "" {
		return false, writeValidationError(c, "item_name", "item_name is required")
	}
	if r.SupplierName == "" {
		return false, writeValidationError(c, "supplier_name", "supplier_name is required")
	}
	if r.UnitPrice.IsNegative() {
		return false, writeValidationError(c, "unit_price", "unit_price cannot be negative")
	}
	if r.LeadTimeDays != nil && *r.LeadTimeDays < 0 {
		return false, writeValidationError(c, "lead_time_days", "lead_time_days cannot be negative")
	}
	if r.MinimumOrderQty != nil && *r.MinimumOrderQty < 1 {
		return false, writeValidationError(c, "minimum_order_quantity", "minimum_order_quantity must be at least 1")
	}
	return true, nil
}

func (r *SupplierProductRequest) toModel() (*models.SupplierQuote, error) {
	supplierID := uuid.New()
	if r.SupplierID != "" {
		parsed, err := uuid.Parse(r.SupplierID)
		if err != nil {
			return nil, err
		}
		supplierID = parsed
	}
	return &models.SupplierQuote{
		SupplierID:      supplierID,
		SupplierName:    r.SupplierName,
		ItemName:        r.ItemName,
		UnitPrice:       r.UnitPrice,
		IsAvailable:     r.IsAvailable,
		LeadTimeDays:    r.LeadTimeDays,
		MinimumOrderQty: r.MinimumOrderQty,
	}, nil
}

func (h *SupplierProductHandlers) Create(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req SupplierProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.validate(c); !ok {
		return handled
	}

	quote, err := req.toModel()
	if err != nil {
		return writeValidationError(c, "supplier_id", "supplier_id must be a valid UUID")
	}

	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionCreateQuote,
		ItemName: req.ItemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.CreateSupplierProduct(ctx, quote)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, quote)
}

// Update rewrites a supplier-product link. When the update re-points the
// link at a different item, the previous_item query parameter names the
// item it pointed at before, so both quote entries get busted.
func (h *SupplierProductHandlers) Update(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}

	var req SupplierProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.validate(c); !ok {
		return handled
	}

	quote, err := req.toModel()
	if err != nil {
		return writeValidationError(c, "supplier_id", "supplier_id must be a valid UUID")
	}

	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:           rbac.ActionUpdateQuote,
		ItemName:         req.ItemName,
		PreviousItemName: c.QueryParam("previous_item"),
		Key:              idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.UpdateSupplierProduct(ctx, linkID, quote)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}

// Delete removes a supplier-product link. The item query parameter names
// the item whose quote cache entry must be busted.
func (h *SupplierProductHandlers) Delete(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}
	itemName := c.QueryParam("item")
	if itemName == "" {
		return writeValidationError(c, "item", "item query parameter is required")
	}

	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionDeleteQuote,
		ItemName: itemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.DeleteSupplierProduct(ctx, linkID)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
