package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// Capabilities returns the caller's full capability row so the UI hides
// controls from the same matrix the gateway enforces. Literal role checks
// on the UI side would drift; this endpoint removes the temptation.
func Capabilities(c echo.Context) error {
	id, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	allowed := make(map[rbac.Action]bool, len(rbac.Actions()))
	for _, action := range rbac.Actions() {
		allowed[action] = rbac.Allows(id.Role, action)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"role":         id.Role,
		"capabilities": allowed,
	})
}
