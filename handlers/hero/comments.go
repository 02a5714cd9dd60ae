package hero

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
	"github.com/sahilchouksey/everyday-heroes/utils/validation"
	"gorm.io/gorm"
)

// CreateCommentRequest represents the request body for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// ListComments handles GET /api/v1/heroes/:id/comments
func (h *HeroHandler) ListComments(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "Hero not found")
	}

	var hero model.Hero
	if err := h.db.Select("id").First(&hero, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Hero not found")
		}
		return response.InternalServerError(c, "Failed to fetch hero")
	}

	var comments []model.Comment
	if err := h.db.Where("hero_id = ?", hero.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch comments")
	}

	return response.Success(c, comments)
}

// CreateComment handles POST /api/v1/heroes/:id/comments
func (h *HeroHandler) CreateComment(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "Hero not found")
	}

	var hero model.Hero
	if err := h.db.Select("id").First(&hero, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Hero not found")
		}
		return response.InternalServerError(c, "Failed to fetch hero")
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	comment := model.Comment{
		HeroID: hero.ID,
		UserID: userID,
		Text:   validation.SanitizeString(req.Text),
	}

	if err := h.db.Create(&comment).Error; err != nil {
		return response.InternalServerError(c, "Failed to create comment")
	}

	return response.Created(c, comment)
}
