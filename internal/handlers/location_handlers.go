package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stocklens/internal/gateway"
	"stocklens/internal/locations"
	"stocklens/internal/models"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// LocationAPI is the upstream surface for location entities.
type LocationAPI interface {
	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, location *models.Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

// LocationHandlers serves item-location assignment plus the admin-only
// location CRUD.
type LocationHandlers struct {
	api         LocationAPI
	gw          *gateway.Gateway
	coordinator *locations.Coordinator
}

func NewLocationHandlers(api LocationAPI, gw *gateway.Gateway, coordinator *locations.Coordinator) *LocationHandlers {
	return &LocationHandlers{api: api, gw: gw, coordinator: coordinator}
}

// AssignLocationRequest links an item to a location. A null location_id
// clears the link.
type AssignLocationRequest struct {
	ItemName   string  `json:"item_name"`
	LocationID *string `json:"location_id"`
	Quantity   int     `json:"quantity"`
}

func (h *LocationHandlers) AssignLocation(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req AssignLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.ItemName == "" {
		return writeValidationError(c, "item_name", "item_name is required")
	}
	if req.Quantity < 0 {
		return writeValidationError(c, "quantity", "quantity cannot be negative")
	}

	var locationID *uuid.UUID
	if req.LocationID != nil {
		parsed, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return writeValidationError(c, "location_id", "location_id must be a valid UUID")
		}
		locationID = &parsed
	}

	err := h.coordinator.Assign(c.Request().Context(), id, req.ItemName, locationID, req.Quantity, idempotencyKey(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LocationRequest is the create/update payload for a location.
type LocationRequest struct {
	Name string `json:"name"`
}

func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Name == "" {
		return writeValidationError(c, "name", "name is required")
	}

	location := models.Location{ID: uuid.New(), Name: req.Name}
	err := h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action: rbac.ActionCreateLocation,
		Key:    idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.CreateLocation(ctx, &location)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, location)
}

func (h *LocationHandlers) UpdateLocation(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Name == "" {
		return writeValidationError(c, "name", "name is required")
	}

	location := models.Location{ID: locationID, Name: req.Name}
	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action: rbac.ActionUpdateLocation,
		Key:    idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.UpdateLocation(ctx, &location)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, location)
}

func (h *LocationHandlers) DeleteLocation(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeValidationError(c, "id", "id must be a valid UUID")
	}

	err = h.gw.Execute(c.Request().Context(), id, gateway.Mutation{
		Action: rbac.ActionDeleteLocation,
		Key:    idempotencyKey(c),
		Call: func(ctx context.Context) error {
			return h.api.DeleteLocation(ctx, locationID)
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
