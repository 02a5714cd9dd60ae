package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
	"gorm.io/gorm"
)

// UserHandler handles user profile requests
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ProfileResponse represents a user together with their heroes
type ProfileResponse struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"created_at"`
	Heroes    []model.Hero `json:"heroes"`
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	heroes, err := h.heroesWithThanks(user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch heroes")
	}

	return response.Success(c, ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		Heroes:    heroes,
	})
}

// ListUserHeroes handles GET /api/v1/users/:id/heroes
func (h *UserHandler) ListUserHeroes(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	var user model.User
	if err := h.db.Select("id").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	heroes, err := h.heroesWithThanks(user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch heroes")
	}

	return response.Success(c, heroes)
}

// heroesWithThanks loads a user's heroes with per-hero thanks counts
func (h *UserHandler) heroesWithThanks(userID uint) ([]model.Hero, error) {
	var heroes []model.Hero
	if err := h.db.Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&heroes).Error; err != nil {
		return nil, err
	}

	for i := range heroes {
		if err := h.db.Model(&model.Thank{}).
			Where("hero_id = ?", heroes[i].ID).
			Count(&heroes[i].ThanksCount).Error; err != nil {
			return nil, err
		}
	}
	return heroes, nil
}
