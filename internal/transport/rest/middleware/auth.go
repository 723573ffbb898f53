package middleware

import (
	"context"
	"net/http"
	"strings"

	"screenbot/internal/service"
)

type contextKey string

const AdminIDKey contextKey = "adminId"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc     *service.AuthService
	adminUserID int64
}

// NewAuthMiddleware creates a new auth middleware bound to the configured admin
func NewAuthMiddleware(authSvc *service.AuthService, adminUserID int64) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, adminUserID: adminUserID}
}

// RequireAdmin validates the admin JWT from the Authorization header
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateAdminToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if claims.AdminID == 0 || claims.AdminID != m.adminUserID {
			http.Error(w, `{"error":"not the configured admin"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminID extracts admin ID from context
func GetAdminID(ctx context.Context) int64 {
	if v, ok := ctx.Value(AdminIDKey).(int64); ok {
		return v
	}
	return 0
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
