package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/models"
)

// employeeHeader carries the caller's employee id, set by the gateway
// after it has authenticated the request.
const employeeHeader = "X-Employee-ID"

// UserLookup resolves the caller of a request.
type UserLookup interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
}

type userKey struct{}

func withUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the authenticated caller stored by Authenticate.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// Authenticate rejects requests without an active user behind the
// employee header.
func Authenticate(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			employeeID := strings.TrimSpace(r.Header.Get(employeeHeader))
			if employeeID == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing "+employeeHeader)
				return
			}
			u, err := users.GetByEmployeeID(r.Context(), employeeID)
			switch {
			case errors.Is(err, models.ErrUserNotFound):
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown employee")
				return
			case err != nil:
				writeServiceError(w, r, err)
				return
			case !u.IsActive:
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, models.ErrUserInactive.Error())
				return
			}

			ctx := withUser(r.Context(), *u)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("employee_id", u.EmployeeID)
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets through admins and sysadmins only.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok || !u.Role.IsAdmin() {
			writeError(w, http.StatusForbidden, codeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
