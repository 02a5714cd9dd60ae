package hero

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for a unique index conflict
const uniqueViolation = "23505"

// ThankHero handles POST /api/v1/heroes/:id/thank. Each user can thank
// a hero once; the composite unique index settles concurrent requests.
func (h *HeroHandler) ThankHero(c *fiber.Ctx) error {
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

	// Pre-check for the common case; the index catches the race
	var existing model.Thank
	err := h.db.Where("hero_id = ? AND user_id = ?", hero.ID, userID).First(&existing).Error
	if err == nil {
		return response.BadRequest(c, "You have already thanked this hero")
	}
	if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to check thanks")
	}

	thank := model.Thank{
		HeroID: hero.ID,
		UserID: userID,
	}

	if err := h.db.Create(&thank).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return response.BadRequest(c, "You have already thanked this hero")
		}
		return response.InternalServerError(c, "Failed to thank hero")
	}

	var total int64
	if err := h.db.Model(&model.Thank{}).
		Where("hero_id = ?", hero.ID).
		Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count thanks")
	}

	return response.SuccessWithMessage(c, "Hero thanked", fiber.Map{
		"total": total,
	})
}
