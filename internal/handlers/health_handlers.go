package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness. No auth required.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
