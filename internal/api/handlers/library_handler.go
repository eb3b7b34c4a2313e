package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
)

type LibraryHandler struct {
	s service.LibraryService
}

func NewLibraryHandler(service service.LibraryService) *LibraryHandler {
	return &LibraryHandler{s: service}
}

func (h *LibraryHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)

	items, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"items": items,
	})
}

func (h *LibraryHandler) BulkDelete(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req struct {
		AssetIDs []int64 `json:"asset_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.AssetIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No assets selected",
		})
	}

	result, err := h.s.BulkDelete(c.Context(), userID, req.AssetIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

// Download redirects to our own storage when the asset lives there, and to
// the original origin otherwise.
func (h *LibraryHandler) Download(c *fiber.Ctx) error {
	userID := GetUserID(c)

	assetID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid asset id",
		})
	}

	asset, err := h.s.Asset(c.Context(), userID, assetID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if h.s.IsStorageURL(asset.FileURL) {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+asset.FileName+`"`)
	}
	return c.Redirect(asset.FileURL, fiber.StatusTemporaryRedirect)
}
