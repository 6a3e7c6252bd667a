package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocklens/internal/catalog"
	"stocklens/internal/quotes"
	"stocklens/internal/session"
)

// RefreshHandlers implements the explicit global refresh: every quote
// entry is evicted wholesale and the catalog refetched.
type RefreshHandlers struct {
	cache   *quotes.Cache
	catalog *catalog.Catalog
}

func NewRefreshHandlers(cache *quotes.Cache, cat *catalog.Catalog) *RefreshHandlers {
	return &RefreshHandlers{cache: cache, catalog: cat}
}

func (h *RefreshHandlers) Refresh(c echo.Context) error {
	if _, ok := session.FromContext(c.Request().Context()); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	h.cache.BustAll()
	if err := h.catalog.Refresh(c.Request().Context()); err != nil {
		// Last-known-good catalog stays in place.
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": h.catalog.Items(),
	})
}
