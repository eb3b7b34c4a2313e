package handlers

import (
	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
)

type AlertHandler struct {
	s service.AlertService
}

func NewAlertHandler(service service.AlertService) *AlertHandler {
	return &AlertHandler{s: service}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)

	alerts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"alerts": alerts,
	})
}

// UnreadCount backs the 30s badge poll from the dashboard header.
func (h *AlertHandler) UnreadCount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	count, err := h.s.UnreadCount(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.MarkAllRead(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
