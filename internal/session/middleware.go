package session

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"stocklens/internal/rbac"
)

// Claims are the custom JWT claims the identity provider issues for
// dashboard sessions.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware validates the bearer token and places the caller's Identity
// into the request context. Token issuance and storage belong to the
// identity provider; this side only reads.
func Middleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return
			}
			role, err := rbac.ParseRole(claims.Role)
			if err != nil {
				return
			}

			ctx := WithIdentity(c.Request().Context(), Identity{UserID: userID, Role: role})
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	})
}
