package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stocklens/internal/catalog"
	"stocklens/internal/gateway"
	"stocklens/internal/models"
	"stocklens/internal/quotes"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// ItemAPI is the slice of the upstream client the item handlers mutate
// through.
type ItemAPI interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItem(ctx context.Context, item *models.InventoryItem) error
	DeleteItem(ctx context.Context, itemName string) error
	CreateSupplierProduct(ctx context.Context, quote *models.SupplierQuote) error
}

// ItemHandlers serves the catalog, per-item quote expansion and item
// mutations.
type ItemHandlers struct {
	api     ItemAPI
	gw      *gateway.Gateway
	catalog *catalog.Catalog
	cache   *quotes.Cache
}

func NewItemHandlers(api ItemAPI, gw *gateway.Gateway, cat *catalog.Catalog, cache *quotes.Cache) *ItemHandlers {
	return &ItemHandlers{api: api, gw: gw, catalog: cat, cache: cache}
}

// ListItems returns the current catalog snapshot.
func (h *ItemHandlers) ListItems(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !rbac.Allows(id.Role, rbac.ActionReadInventory) {
		return writeError(c, rbac.ErrPermissionDenied)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": h.catalog.Items(),
	})
}

// GetItemSuppliers expands one item's quote set, populating the cache on
// first access.
func (h *ItemHandlers) GetItemSuppliers(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !rbac.Allows(id.Role, rbac.ActionReadInventory) {
		return writeError(c, rbac.ErrPermissionDenied)
	}

	itemName := c.Param("item")
	qs, err := h.cache.Get(c.Request().Context(), itemName)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_name": itemName,
		"suppliers": qs,
	})
}

// GetBestSupplier recomputes the cheapest available quote from the
// current quote set. The selection is never stored; a stale cache entry
// cannot outlive its quotes.
func (h *ItemHandlers) GetBestSupplier(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !rbac.Allows(id.Role, rbac.ActionReadInventory) {
		return writeError(c, rbac.ErrPermissionDenied)
	}

	itemName := c.Param("item")
	qs, err := h.cache.Get(c.Request().Context(), itemName)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_name":     itemName,
		"best_supplier": quotes.Select(qs),
	})
}

// CreateItemRequest is the item creation payload.
type CreateItemRequest struct {
	ItemName     string `json:"item_name"`
	Quantity     int    `json:"quantity"`
	Group        string `json:"group"`
	ReorderPoint int    `json:"reorder_point"`
}

func (r *CreateItemRequest) validate(c echo.Context) (ok bool, handled error) {
	if r.ItemName == "" {
		return false, writeValidationError(c, "item_name", "item_name is required")
	}
	if r.Quantity < 0 {
		return false, writeValidationError(c, "quantity", "quantity cannot be negative")
	}
	if r.ReorderPoint < 0 {
		return false, writeValidationError(c, "reorder_point", "reorder_point cannot be negative")
	}
	return true, nil
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if ok, handled := req.validate(c); !ok {
		return handled
	}

	item := models.InventoryItem{
		Name:         req.ItemName,
		Quantity:     req.Quantity,
		Group:        req.Group,
		ReorderPoint: req.ReorderPoint,
		UpdatedAt:    time.Now().UTC(),
	}

	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionCreateItem,
		ItemName: req.ItemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.CreateItem(ctx, &item)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateItemRequest carries the mutable item fields. The natural key is
// taken from the path and cannot change.
type UpdateItemRequest struct {
	Quantity     int    `json:"quantity"`
	Group        string `json:"group"`
	ReorderPoint int    `json:"reorder_point"`
}

func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	itemName := c.Param("item")
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Quantity < 0 {
		return writeValidationError(c, "quantity", "quantity cannot be negative")
	}
	if req.ReorderPoint < 0 {
		return writeValidationError(c, "reorder_point", "reorder_point cannot be negative")
	}

	item := models.InventoryItem{
		Name:         itemName,
		Quantity:     req.Quantity,
		Group:        req.Group,
		ReorderPoint: req.ReorderPoint,
		UpdatedAt:    time.Now().UTC(),
	}

	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionUpdateItem,
		ItemName: itemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.UpdateItem(ctx, &item)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	itemName := c.Param("item")
	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action:   rbac.ActionDeleteItem,
		ItemName: itemName,
		Key:      idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.DeleteItem(ctx, itemName)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
