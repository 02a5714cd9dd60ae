package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: auth.TokenTTL,
		Issuer: "everyday-heroes-test",
	})
}

func newProtectedApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/protected", m.Required(), func(c *fiber.Ctx) error {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		return c.JSON(fiber.Map{"user_id": userID, "email": email})
	})
	return app
}

func TestRequiredMissingToken(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTManager(), auth.NewMemoryBlacklist())
	app := newProtectedApp(m)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequiredMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTManager(), auth.NewMemoryBlacklist())
	app := newProtectedApp(m)

	for _, header := range []string{"Bearer", "Basic abc123", "Bearer ", "token-without-scheme"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
	}
}

func TestRequiredValidToken(t *testing.T) {
	jwtManager := newTestJWTManager()
	m := NewAuthMiddleware(jwtManager, auth.NewMemoryBlacklist())
	app := newProtectedApp(m)

	token, err := jwtManager.GenerateToken(7, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"user_id":7`) {
		t.Errorf("expected user_id 7 in body, got %s", body)
	}
	if !strings.Contains(string(body), "alice@example.com") {
		t.Errorf("expected email in body, got %s", body)
	}
}

func TestRequiredRevokedToken(t *testing.T) {
	jwtManager := newTestJWTManager()
	blacklist := auth.NewMemoryBlacklist()
	m := NewAuthMiddleware(jwtManager, blacklist)
	app := newProtectedApp(m)

	token, err := jwtManager.GenerateToken(7, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if err := blacklist.Record(context.Background(), token, 7, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Token has been revoked") {
		t.Errorf("expected revocation message, got %s", body)
	}
}

func TestRequiredExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Second,
	})
	m := NewAuthMiddleware(newTestJWTManager(), auth.NewMemoryBlacklist())
	app := newProtectedApp(m)

	token, err := expired.GenerateToken(7, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Token has expired") {
		t.Errorf("expected expiry message, got %s", body)
	}
}

// failingStore simulates a blacklist outage
type failingStore struct{}

func (failingStore) Record(ctx context.Context, token string, userID uint, expiresAt time.Time, reason string) error {
	return errors.New("store unavailable")
}
func (failingStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestRevocationCheckFailsOpen(t *testing.T) {
	jwtManager := newTestJWTManager()
	m := NewAuthMiddleware(jwtManager, failingStore{})
	app := newProtectedApp(m)

	token, err := jwtManager.GenerateToken(7, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 when the store is down, got %d", resp.StatusCode)
	}
}

func TestOptionalWithoutToken(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTManager(), auth.NewMemoryBlacklist())
	app := fiber.New()
	app.Get("/open", m.Optional(), func(c *fiber.Ctx) error {
		if _, ok := GetUserID(c); ok {
			return c.SendString("authenticated")
		}
		return c.SendString("anonymous")
	})

	req := httptest.NewRequest("GET", "/open", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "anonymous" {
		t.Errorf("expected anonymous, got %s", body)
	}
}

func TestUseAppendsCheck(t *testing.T) {
	jwtManager := newTestJWTManager()
	m := NewAuthMiddleware(jwtManager, auth.NewMemoryBlacklist())
	m.Use(func(ctx context.Context, token string, claims *auth.Claims) error {
		if claims.UserID == 13 {
			return fiber.NewError(fiber.StatusUnauthorized, "Account suspended")
		}
		return nil
	})
	app := newProtectedApp(m)

	blocked, _ := jwtManager.GenerateToken(13, "mallory@example.com")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+blocked)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 from appended check, got %d", resp.StatusCode)
	}

	allowed, _ := jwtManager.GenerateToken(7, "alice@example.com")
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+allowed)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for unaffected user, got %d", resp.StatusCode)
	}
}
