package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/database"
	"github.com/sahilchouksey/everyday-heroes/handlers"
	auth_handlers "github.com/sahilchouksey/everyday-heroes/handlers/auth"
	hero_handlers "github.com/sahilchouksey/everyday-heroes/handlers/hero"
	upload_handlers "github.com/sahilchouksey/everyday-heroes/handlers/upload"
	user_handlers "github.com/sahilchouksey/everyday-heroes/handlers/user"
	"github.com/sahilchouksey/everyday-heroes/services/digitalocean"
	"github.com/sahilchouksey/everyday-heroes/utils"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
	"github.com/sahilchouksey/everyday-heroes/utils/cache"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, blacklist auth.RevocationStore) {
	// The signing secret is process-wide configuration; refusing to
	// start beats issuing unsigned tokens.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "everyday-heroes-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: auth.TokenTTL,
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Auth gateway with the revocation check in its pipeline
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklist)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, blacklist, bruteForceProtection)
	heroHandler := hero_handlers.NewHeroHandler(db)
	userHandler := user_handlers.NewUserHandler(db)

	// Spaces client for photo uploads (optional: routes are only
	// mounted when the bucket is configured)
	var uploadHandler *upload_handlers.UploadHandler
	if os.Getenv("DO_SPACES_BUCKET") != "" {
		spaces, err := digitalocean.NewSpacesClient(digitalocean.SpacesConfig{
			AccessKey: os.Getenv("DO_SPACES_KEY"),
			SecretKey: os.Getenv("DO_SPACES_SECRET"),
			Bucket:    os.Getenv("DO_SPACES_BUCKET"),
			Region:    os.Getenv("DO_SPACES_REGION"),
			Endpoint:  os.Getenv("DO_SPACES_ENDPOINT"),
			CDNURL:    os.Getenv("DO_SPACES_CDN_URL"),
		})
		if err != nil {
			log.Printf("Warning: Failed to create Spaces client: %v. Photo uploads will be disabled.", err)
		} else {
			uploadHandler = upload_handlers.NewUploadHandler(spaces)
		}
	}

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Logout is deliberately unauthenticated: it succeeds even when the
	// presented token is already invalid
	authGroup.Post("/logout", authHandler.Logout)

	// Hero routes
	heroes := api.Group("/heroes")
	heroes.Get("/", heroHandler.ListHeroes)                                        // Public: list with tag/location filters
	heroes.Get("/:id", heroHandler.GetHero)                                        // Public: hero with comments
	heroes.Get("/:id/comments", heroHandler.ListComments)                          // Public: list comments
	heroes.Post("/", authMiddleware.Required(), heroHandler.CreateHero)            // Auth: create hero
	heroes.Delete("/:id", authMiddleware.Required(), heroHandler.DeleteHero)       // Auth: creator only
	heroes.Post("/:id/comments", authMiddleware.Required(), heroHandler.CreateComment) // Auth: comment
	heroes.Post("/:id/thank", authMiddleware.Required(), heroHandler.ThankHero)    // Auth: one thank per user

	// User routes
	users := api.Group("/users")
	users.Get("/me", authMiddleware.Required(), userHandler.Me)
	users.Get("/:id/heroes", userHandler.ListUserHeroes)

	// Upload routes
	if uploadHandler != nil {
		api.Post("/uploads", authMiddleware.Required(), uploadHandler.UploadPhoto)
	}
}
