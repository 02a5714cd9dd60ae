package hero

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/model"
	authutil "github.com/sahilchouksey/everyday-heroes/utils/auth"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type heroTestEnv struct {
	app        *fiber.App
	db         *gorm.DB
	jwtManager *authutil.JWTManager
}

func newHeroTestEnv(t *testing.T) *heroTestEnv {
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
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, authutil.NewMemoryBlacklist())
	handler := NewHeroHandler(db)

	app := fiber.New()
	app.Get("/heroes/:id", handler.GetHero)
	app.Post("/heroes/:id/thank", authMiddleware.Required(), handler.ThankHero)

	return &heroTestEnv{app: app, db: db, jwtManager: jwtManager}
}

func (e *heroTestEnv) createUser(t *testing.T, name, email string) (model.User, string) {
	t.Helper()

	user := model.User{Name: name, Email: email, PasswordHash: "unused:unused"}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := e.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func (e *heroTestEnv) createHero(t *testing.T, createdBy uint) model.Hero {
	t.Helper()

	hero := model.Hero{
		FullName:  "Sunita Devi",
		Story:     "Runs a free evening school for children in her neighbourhood.",
		Location:  "Bhopal",
		CreatedBy: createdBy,
	}
	if err := e.db.Create(&hero).Error; err != nil {
		t.Fatalf("failed to create hero: %v", err)
	}
	return hero
}

func (e *heroTestEnv) thank(t *testing.T, heroID string, token string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", "/heroes/"+heroID+"/thank", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestThankHeroOncePerUser(t *testing.T) {
	env := newHeroTestEnv(t)

	creator, _ := env.createUser(t, "Asha", "asha@example.com")
	_, aliceToken := env.createUser(t, "Alice", "alice@example.com")
	_, bobToken := env.createUser(t, "Bob", "bob@example.com")
	hero := env.createHero(t, creator.ID)
	heroID := itoa(hero.ID)

	// First thank succeeds
	status, body := env.thank(t, heroID, aliceToken)
	if status != fiber.StatusOK {
		t.Fatalf("first thank: expected 200, got %d (%s)", status, body)
	}
	if !strings.Contains(body, `"total":1`) {
		t.Errorf("first thank: expected total 1, got %s", body)
	}

	// Same user again is rejected
	status, body = env.thank(t, heroID, aliceToken)
	if status != fiber.StatusBadRequest {
		t.Fatalf("repeat thank: expected 400, got %d (%s)", status, body)
	}
	if !strings.Contains(body, "You have already thanked this hero") {
		t.Errorf("repeat thank: expected already-thanked message, got %s", body)
	}

	// A different user still succeeds and the total grows
	status, body = env.thank(t, heroID, bobToken)
	if status != fiber.StatusOK {
		t.Fatalf("second user thank: expected 200, got %d (%s)", status, body)
	}
	if !strings.Contains(body, `"total":2`) {
		t.Errorf("second user thank: expected total 2, got %s", body)
	}

	var count int64
	env.db.Model(&model.Thank{}).Where("hero_id = ?", hero.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 thank rows, got %d", count)
	}
}

func TestThankHeroNotFound(t *testing.T) {
	env := newHeroTestEnv(t)
	_, token := env.createUser(t, "Alice", "alice@example.com")

	for _, id := range []string{"999", "not-a-number"} {
		status, _ := env.thank(t, id, token)
		if status != fiber.StatusNotFound {
			t.Errorf("thank %q: expected 404, got %d", id, status)
		}
	}
}

func TestGetHeroNotFound(t *testing.T) {
	env := newHeroTestEnv(t)

	for _, id := range []string{"999", "not-a-number"} {
		req := httptest.NewRequest("GET", "/heroes/"+id, nil)
		resp, err := env.app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("get %q: expected 404, got %d", id, resp.StatusCode)
		}
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
