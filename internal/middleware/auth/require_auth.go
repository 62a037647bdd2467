package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// RequireAuth validates the bearer access token and stores the subject and
// role on the echo context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present
// but lets anonymous requests through. For endpoints that are public yet
// behave differently for privileged callers.
func OptionalAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return next(c)
			}
			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil || claims == nil || claims.Subject == "" {
				return next(c)
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if role != models.UserAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c echo.Context) (uint, error) {
	sub, _ := c.Get(CtxUserID).(string)
	if sub == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uint(id), nil
}

func IsAdmin(c echo.Context) bool {
	role, _ := c.Get(CtxRole).(string)
	return role == models.UserAdmin
}
