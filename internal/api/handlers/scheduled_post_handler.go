package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
	"socialdeck/internal/transfer"
)

type ScheduledPostHandler struct {
	s service.ScheduledPostService
}

func NewScheduledPostHandler(service service.ScheduledPostService) *ScheduledPostHandler {
	return &ScheduledPostHandler{s: service}
}

func (h *ScheduledPostHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduledPostCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	postID, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post_id": postID,
	})
}

func (h *ScheduledPostHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

func (h *ScheduledPostHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.s.Get(c.Context(), userID, postID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(post)
}

func (h *ScheduledPostHandler) Reschedule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req struct {
		ScheduledAt string `json:"scheduled_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidScheduledAt.Error(),
		})
	}

	if err := h.s.Reschedule(c.Context(), userID, postID, scheduledAt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (h *ScheduledPostHandler) Remove(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.Remove(c.Context(), userID, postID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
