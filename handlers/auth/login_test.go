package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/model"
	authutil "github.com/sahilchouksey/everyday-heroes/utils/auth"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// One in-memory database per connection, so keep the pool at one
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Hero{}, &model.Comment{}, &model.Thank{}, &model.JWTTokenBlacklist{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "test-secret",
		Expiry: authutil.TokenTTL,
		Issuer: "everyday-heroes-test",
	})
	handler := NewAuthHandler(db, jwtManager, authutil.NewMemoryBlacklist(), nil)

	app := fiber.New()
	app.Post("/register", handler.Register)
	app.Post("/login", handler.Login)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, string) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(respBody)
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, body := postJSON(t, app, "/register", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", status, body)
	}
	if !strings.Contains(body, `"token"`) {
		t.Errorf("register: expected a token in response, got %s", body)
	}
	if strings.Contains(body, "secret1") {
		t.Errorf("register: password leaked in response: %s", body)
	}

	status, body = postJSON(t, app, "/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", status, body)
	}
	if !strings.Contains(body, `"token"`) {
		t.Errorf("login: expected a token in response, got %s", body)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newAuthTestApp(t)

	postJSON(t, app, "/register", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})

	status, body := postJSON(t, app, "/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%s)", status, body)
	}
	if !strings.Contains(body, "Invalid email or password") {
		t.Errorf("expected credential error message, got %s", body)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, body := postJSON(t, app, "/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "secret1",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%s)", status, body)
	}
	// Same message as a wrong password, so the response does not reveal
	// which accounts exist
	if !strings.Contains(body, "Invalid email or password") {
		t.Errorf("expected credential error message, got %s", body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := newAuthTestApp(t)

	payload := fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret1",
	}

	status, body := postJSON(t, app, "/register", payload)
	if status != fiber.StatusCreated {
		t.Fatalf("first register: expected 201, got %d (%s)", status, body)
	}

	status, body = postJSON(t, app, "/register", payload)
	if status != fiber.StatusConflict {
		t.Fatalf("second register: expected 409, got %d (%s)", status, body)
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", "alice@example.com").Count(&count)
	if count != 1 {
		t.Errorf("expected a single user row, got %d", count)
	}
}
