package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sahilchouksey/everyday-heroes/services/digitalocean"
	"github.com/sahilchouksey/everyday-heroes/utils/response"
)

// MaxPhotoSize limits hero photo uploads to 5 MB
const MaxPhotoSize = 5 * 1024 * 1024

// UploadHandler handles hero photo uploads to object storage
type UploadHandler struct {
	spaces *digitalocean.SpacesClient
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(spaces *digitalocean.SpacesClient) *UploadHandler {
	return &UploadHandler{spaces: spaces}
}

// UploadPhoto handles POST /api/v1/uploads. Accepts a multipart "photo"
// field and returns the public URL to use as a hero's photo_url.
func (h *UploadHandler) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "Photo file is required")
	}

	if fileHeader.Size > MaxPhotoSize {
		return response.BadRequest(c, "Photo must be smaller than 5 MB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return response.BadRequest(c, "Only image uploads are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read photo")
	}
	defer file.Close()

	key := fmt.Sprintf("heroes/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))

	url, err := h.spaces.UploadFile(c.Context(), key, file, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload photo")
	}

	return response.Created(c, fiber.Map{
		"url": url,
		"key": key,
	})
}
