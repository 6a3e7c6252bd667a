package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stocklens/internal/gateway"
	"stocklens/internal/models"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// AttachQuoteRequest is the initial quote attached when an item is
// created together with its first supplier.
type AttachQuoteRequest struct {
	SupplierID      string          `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsAvailable     bool            `json:"is_available"`
	LeadTimeDays    *int            `json:"lead_time_days"`
	MinimumOrderQty *int            `json:"minimum_order_quantity"`
}

// CreateItemWithQuoteRequest is the two-step "add item, then attach its
// first supplier quote" payload.
type CreateItemWithQuoteRequest struct {
	CreateItemRequest
	Quote AttachQuoteRequest `json:"quote"`
}

// CreateItemWithQuoteResponse distinguishes "item created, quote failed"
// from full success. A failed quote attach does not roll the item back.
type CreateItemWithQuoteResponse struct {
	Item          models.InventoryItem `json:"item"`
	QuoteAttached bool                 `json:"quote_attached"`
	QuoteError    string               `json:"quote_error,omitempty"`
}

// CreateItemWithQuote creates an item and attaches its first quote as two
// independent upstream calls, surfacing partial failure explicitly.
func (h *ItemHandlers) CreateItemWithQuote(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req CreateItemWithQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.CreateItemRequest.validate(c); !ok {
		return handled
	}
	if req.Quote.SupplierName == "" {
		return writeValidationError(c, "quote.supplier_name", "supplier_name is required")
	}
	if req.Quote.UnitPrice.IsNegative() {
		return writeValidationError(c, "quote.unit_price", "unit_price cannot be negative")
	}

	supplierID := uuid.New()
	if req.Quote.SupplierID != "" {
		parsed, err := uuid.Parse(req.Quote.SupplierID)
		if err != nil {
			return writeValidationError(c, "quote.supplier_id", "supplier_id must be a valid UUID")
		}
		supplierID = parsed
	}

	item := models.InventoryItem{
		Name:         req.ItemName,
		Quantity:     req.Quantity,
		Group:        req.Group,
		ReorderPoint: req.ReorderPoint,
		UpdatedAt:    time.Now().UTC(),
	}
	quote := models.SupplierQuote{
		SupplierID:      supplierID,
		SupplierName:    req.Quote.SupplierName,
		ItemName:        req.ItemName,
		UnitPrice:       req.Quote.UnitPrice,
		IsAvailable:     req.Quote.IsAvailable,
		LeadTimeDays:    req.Quote.LeadTimeDays,
		MinimumOrderQty: req.Quote.MinimumOrderQty,
	}

	key := idempotencyKey(c)
	quoteKey := ""
	if key != "" {
		quoteKey = key + ":quote"
	}

	result, err := h.gw.ExecutePair(c.Request().Context(), id,
		gateway.Mutation{
			Action:   rbac.ActionCreateItem,
			ItemName: req.ItemName,
			Key:      key,
			Call: func(ctx context.Context) error {
				return h.api.CreateItem(ctx, &item)
			},
		},
		gateway.Mutation{
			Action:   rbac.ActionCreateQuote,
			ItemName: req.ItemName,
			Key:      quoteKey,
			Call: func(ctx context.Context) error {
				return h.api.CreateSupplierProduct(ctx, &quote)
			},
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	resp := CreateItemWithQuoteResponse{Item: item, QuoteAttached: result.SecondaryErr == nil}
	if result.SecondaryErr != nil {
		resp.QuoteError = result.SecondaryErr.Error()
	}
	return c.JSON(http.StatusCreated, resp)
}
