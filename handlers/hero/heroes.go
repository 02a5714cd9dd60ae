package hero

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/middleware"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
	"github.com/sahilchouksey/everyday-heroes/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HeroHandler handles hero-related requests
type HeroHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewHeroHandler creates a new hero handler
func NewHeroHandler(db *gorm.DB) *HeroHandler {
	return &HeroHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateHeroRequest represents the request body for creating a hero
type CreateHeroRequest struct {
	FullName string   `json:"full_name" validate:"required,min=2,max=255"`
	Story    string   `json:"story" validate:"required,min=10"`
	Location string   `json:"location" validate:"required,min=2,max=255"`
	Tags     []string `json:"tags" validate:"required,min=1,dive,required"`
	PhotoURL string   `json:"photo_url" validate:"required,url"`
}

// pathID parses the numeric :id route parameter. A non-numeric value
// can never name an existing row, so callers answer 404.
func pathID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ListHeroes handles GET /api/v1/heroes
func (h *HeroHandler) ListHeroes(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	tag := c.Query("tag", "")
	location := c.Query("location", "")

	// Build query
	query := h.db.Model(&model.Hero{})

	if tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}

	if location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count heroes")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var heroes []model.Hero
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&heroes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch heroes")
	}

	if err := h.attachThanksCounts(heroes); err != nil {
		return response.InternalServerError(c, "Failed to count thanks")
	}

	return response.Paginated(c, heroes, pagination)
}

// GetHero handles GET /api/v1/heroes/:id
func (h *HeroHandler) GetHero(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "Hero not found")
	}

	var hero model.Hero
	if err := h.db.Preload("Comments").First(&hero, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Hero not found")
		}
		return response.InternalServerError(c, "Failed to fetch hero")
	}

	if err := h.db.Model(&model.Thank{}).
		Where("hero_id = ?", hero.ID).
		Count(&hero.ThanksCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to count thanks")
	}

	return response.Success(c, hero)
}

// CreateHero handles POST /api/v1/heroes
func (h *HeroHandler) CreateHero(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateHeroRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.FullName = validation.SanitizeString(req.FullName)
	req.Story = validation.SanitizeString(req.Story)
	req.Location = validation.SanitizeString(req.Location)

	hero := model.Hero{
		FullName:  req.FullName,
		Story:     req.Story,
		Location:  req.Location,
		Tags:      datatypes.NewJSONSlice(req.Tags),
		PhotoURL:  req.PhotoURL,
		CreatedBy: userID,
	}

	if err := h.db.Create(&hero).Error; err != nil {
		return response.InternalServerError(c, "Failed to create hero")
	}

	return response.Created(c, hero)
}

// DeleteHero handles DELETE /api/v1/heroes/:id
func (h *HeroHandler) DeleteHero(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "Hero not found")
	}

	var hero model.Hero
	if err := h.db.First(&hero, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Hero not found")
		}
		return response.InternalServerError(c, "Failed to fetch hero")
	}

	if hero.CreatedBy != userID {
		return response.Forbidden(c, "Only the creator can delete this hero")
	}

	// Remove comments and thanks together with the hero
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hero_id = ?", hero.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hero_id = ?", hero.ID).Delete(&model.Thank{}).Error; err != nil {
			return err
		}
		return tx.Delete(&hero).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete hero")
	}

	return response.SuccessWithMessage(c, "Hero deleted successfully", nil)
}

// attachThanksCounts fills ThanksCount for a batch of heroes in one
// grouped query
func (h *HeroHandler) attachThanksCounts(heroes []model.Hero) error {
	if len(heroes) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(heroes))
	for _, hero := range heroes {
		ids = append(ids, hero.ID)
	}

	type thankCount struct {
		HeroID uint
		Count  int64
	}

	var counts []thankCount
	err := h.db.Model(&model.Thank{}).
		Select("hero_id, COUNT(*) AS count").
		Where("hero_id IN ?", ids).
		Group("hero_id").
		Scan(&counts).Error
	if err != nil {
		return err
	}

	byHero := make(map[uint]int64, len(counts))
	for _, tc := range counts {
		byHero[tc.HeroID] = tc.Count
	}

	for i := range heroes {
		heroes[i].ThanksCount = byHero[heroes[i].ID]
	}
	return nil
}
