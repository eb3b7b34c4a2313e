package handlers

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

// Upload stores one multipart file for the given platform and returns the
// asset with its public URL, ready to attach to a draft.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	platform := c.FormValue("platform")
	if platform == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing platform",
		})
	}

	accountID, err := strconv.ParseInt(c.FormValue("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}

	asset, err := h.s.Upload(c.Context(), userID, accountID, platform, fileHeader.Filename, data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(asset)
}

func (h *MediaHandler) RecentUploads(c *fiber.Ctx) error {
	userID := GetUserID(c)

	assets, err := h.s.ListRecent(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"uploads": assets,
	})
}

// Resolve attaches an already-uploaded file by its URL.
func (h *MediaHandler) Resolve(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req struct {
		FileURL string `json:"file_url"`
	}
	if err := c.BodyParser(&req); err != nil || req.FileURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file_url",
		})
	}

	asset, err := h.s.Resolve(c.Context(), userID, req.FileURL)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(asset)
}
