package auth

import (
	"github.com/gofiber/fiber/v2"
	authutil "github.com/sahilchouksey/everyday-heroes/utils/auth"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
)

// Logout revokes the presented token until its natural expiry. Logout
// is best-effort and idempotent: a missing, expired, or forged token
// still gets a 200, since the caller ends up logged out either way.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		return response.SuccessWithMessage(c, "Logged out successfully", nil)
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return response.SuccessWithMessage(c, "Logged out successfully", nil)
	}

	// Blacklist until the token's own expiry (default horizon when the
	// claim is absent), so the entry never outlives the token.
	expiresAt := authutil.TokenExpiry(claims)
	if err := h.blacklist.Record(c.Context(), tokenString, claims.UserID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", fiber.Map{
		"user_id": claims.UserID,
	})
}
