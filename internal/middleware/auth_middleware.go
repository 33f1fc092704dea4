package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/pkg/auth"
)

// Context keys set by AdminRequired
const (
	ContextAdminID = "adminID"
	ContextEmail   = "email"
	ContextRole    = "role"
)

// Authorizer resolves a bearer token to an admin principal
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*services.Principal, error)
}

// AuthMiddleware guards admin routes
type AuthMiddleware struct {
	authorizer Authorizer
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authorizer Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer}
}

// AdminRequired rejects requests without a valid admin bearer token:
// 401 for a missing or bad token, 403 for a valid identity that is not an admin.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		principal, err := m.authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextAdminID, principal.AdminID)
		c.Set(ContextEmail, principal.Email)
		c.Set(ContextRole, string(principal.Role))
		c.Next()
	}
}

// tokenFromHeader accepts "Bearer <token>" and, for Swagger UI convenience,
// a bare JWT.
func tokenFromHeader(header string) (string, error) {
	header = strings.Trim(strings.TrimSpace(header), `"'`)
	if header != "" && !strings.Contains(header, " ") && strings.Count(header, ".") == 2 {
		return header, nil
	}
	return auth.ExtractBearerToken(header)
}
