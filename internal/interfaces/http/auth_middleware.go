package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/access"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// LocalIdentity Fiber locals key holding the verified access.Identity.
const LocalIdentity = "identity"

// DefaultCookieName session cookie used when none is configured.
const DefaultCookieName = "token"

// TokenVerifier turns a raw session token into a caller identity.
// Implemented by *auth.AuthUseCase.
type TokenVerifier interface {
	Verify(token string) (access.Identity, error)
}

// AuthMiddleware reads the session token from the cookie first and the
// Authorization Bearer header second, verifies it and stores the identity in
// c.Locals. A missing token yields 401 MISSING_TOKEN, a bad or expired one
// 401 INVALID_TOKEN.
func AuthMiddleware(verifier TokenVerifier, cookieName string) fiber.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(c *fiber.Ctx) error {
		id, err := verifier.Verify(extractToken(c, cookieName))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) string {
	if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity returns the caller set by AuthMiddleware, or the zero Identity.
func GetIdentity(c *fiber.Ctx) access.Identity {
	id, _ := c.Locals(LocalIdentity).(access.Identity)
	return id
}

// GetUserID returns the caller's account id (after AuthMiddleware).
func GetUserID(c *fiber.Ctx) string {
	return GetIdentity(c).UserID
}

// GetRole returns the caller's role as carried in the token (after AuthMiddleware).
func GetRole(c *fiber.Ctx) string {
	return string(GetIdentity(c).Role)
}

// RequireRole lets the request through only when the caller has one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.UserID == "" {
			return writeError(c, domain.ErrMissingToken)
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return writeError(c, domain.ErrForbidden)
	}
}

// RequireAdmin shorthand for RequireRole(entity.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(entity.RoleAdmin)
}

// RequireApprovedOrAdmin rejects pending, rejected and suspended accounts with 403 PENDING_APPROVAL.
func RequireApprovedOrAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireApprovedOrAdmin(GetIdentity(c)); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}
