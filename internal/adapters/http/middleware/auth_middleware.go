package middleware

import (
	"context"
	"strings"

	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the session cookie
const SessionCookie = "session"

const principalKey = "principal"

// Authenticator resolves a session token to its principal
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// AuthMiddleware requires a valid session and stores the caller's
// principal on the request
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Cookie first, then Authorization header
		token := sessionToken(c)
		if token == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		// 2. Token must verify and its session must be live
		principal, err := auth.Authenticate(c.Context(), token)
		if err != nil {
			if domain.IsKind(err, domain.KindUnauthorized) {
				return response.Unauthorized(c, "Invalid or expired session")
			}
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireRoles allows only principals with one of the given roles.
// Admins always pass.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if principal.IsAdmin() {
			return c.Next()
		}

		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
