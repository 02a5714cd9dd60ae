package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sahilchouksey/everyday-heroes/model"
	authutil "github.com/sahilchouksey/everyday-heroes/utils/auth"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
	"github.com/sahilchouksey/everyday-heroes/utils/validation"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for a unique index conflict
const uniqueViolation = "23505"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	blacklist            authutil.RevocationStore
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, blacklist authutil.RevocationStore, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklist:            blacklist,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents a successful register/login response
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Email = validation.SanitizeString(req.Email)

	// Check if user already exists
	var existingUser model.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	// Hash password
	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	// Create user
	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// Concurrent registrations race past the existence check; the
		// unique index on email settles them
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return response.Conflict(c, "User with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	// Issue session token
	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	res := TokenResponse{
		Token: token,
		User: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}

	return response.Created(c, res)
}
