package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
)

// TokenCheck is a single stage in the authentication pipeline, run
// after the signature/expiry check has produced claims. Returning a
// non-nil error rejects the request with 401 and the error text.
type TokenCheck func(ctx context.Context, token string, claims *auth.Claims) error

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	checks     []TokenCheck
}

// NewAuthMiddleware creates an auth middleware with the revocation
// check as its built-in pipeline stage
func NewAuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		checks:     []TokenCheck{RevocationCheck(blacklist)},
	}
}

// Use appends an extra token check to the pipeline
func (m *AuthMiddleware) Use(check TokenCheck) {
	m.checks = append(m.checks, check)
}

// RevocationCheck rejects tokens recorded in the revocation store.
// Store errors pass the check: revocation is best-effort and a
// blacklist outage must not lock every user out.
func RevocationCheck(blacklist auth.RevocationStore) TokenCheck {
	return func(ctx context.Context, token string, claims *auth.Claims) error {
		revoked, err := blacklist.IsRevoked(ctx, token)
		if err != nil {
			return nil
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
		}
		return nil
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Validate signature and expiry
		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		// Run the remaining pipeline stages
		for _, check := range m.checks {
			if err := check(c.Context(), tokenString, claims); err != nil {
				if fe, ok := err.(*fiber.Error); ok {
					return response.Unauthorized(c, fe.Message)
				}
				return response.Unauthorized(c, "Invalid token")
			}
		}

		// Attach identity to the request context
		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("claims", claims)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c)
		if !ok {
			return c.Next()
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			return c.Next()
		}

		for _, check := range m.checks {
			if err := check(c.Context(), tokenString, claims); err != nil {
				return c.Next()
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("claims", claims)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email := c.Locals("user_email")
	if email == nil {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}
