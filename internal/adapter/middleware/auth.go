package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"loanflow-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// The session handshake itself happens upstream (identity provider); by the
// time a request reaches us the caller's id travels in Ax-User-Id. No
// process-wide auth singleton: the resolved user rides the request context.

const userContextKey = "authed-user"

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// RequireUser resolves Ax-User-Id to an account and stashes it on the
// request.
func RequireUser(users user.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get("Ax-User-Id"))
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing Ax-User-Id"})
			}
			if !reHex32.MatchString(uid) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid Ax-User-Id"})
			}
			u, err := users.GetByUserID(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// RequireAdmin stacks on RequireUser and gates on the boolean admin flag.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil || !u.IsAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the account RequireUser resolved, or nil.
func CurrentUser(c echo.Context) *user.User {
	u, _ := c.Get(userContextKey).(*user.User)
	return u
}

// SetCurrentUser is a test hook for handler tests that bypass the middleware.
func SetCurrentUser(c echo.Context, u *user.User) { c.Set(userContextKey, u) }
