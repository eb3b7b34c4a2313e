package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
	"socialdeck/internal/transfer"
)

type GmbHandler struct {
	s service.GmbService
}

func NewGmbHandler(service service.GmbService) *GmbHandler {
	return &GmbHandler{s: service}
}

func (h *GmbHandler) SyncLocations(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	locations, err := h.s.SyncLocations(c.Context(), userID, accountID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"locations": locations,
	})
}

func (h *GmbHandler) ListLocations(c *fiber.Ctx) error {
	userID := GetUserID(c)

	locations, err := h.s.ListLocations(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"locations": locations,
	})
}

func (h *GmbHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	locationID, err := strconv.ParseInt(c.Params("locationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location id",
		})
	}

	var req transfer.GmbPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, err := h.s.CreatePost(c.Context(), userID, locationID, &req)
	if err != nil {
		status := fiber.StatusBadRequest
		if post != nil {
			// The post row exists with its failure recorded.
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
			"post":  post,
		})
	}

	return c.JSON(post)
}

func (h *GmbHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if locationParam := c.Query("location_id"); locationParam != "" {
		locationID, err := strconv.ParseInt(locationParam, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid location id",
			})
		}

		posts, err := h.s.ListPostsByLocation(c.Context(), userID, locationID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"posts": posts})
	}

	posts, err := h.s.ListPosts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *GmbHandler) LocationPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	locationID, err := strconv.ParseInt(c.Params("locationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location id",
		})
	}

	posts, err := h.s.ListPostsByLocation(c.Context(), userID, locationID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *GmbHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req transfer.GmbPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.UpdatePost(c.Context(), userID, postID, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (h *GmbHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.DeletePost(c.Context(), userID, postID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
