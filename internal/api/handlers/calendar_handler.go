package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/service"
)

type CalendarHandler struct {
	s service.CalendarService
}

func NewCalendarHandler(service service.CalendarService) *CalendarHandler {
	return &CalendarHandler{s: service}
}

// Month returns posts for a month keyed by day, e.g. "2026-08-30".
func (h *CalendarHandler) Month(c *fiber.Ctx) error {
	userID := GetUserID(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month",
		})
	}

	buckets, err := h.s.Month(c.Context(), userID, year, time.Month(monthNum))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"days": buckets,
	})
}

func (h *CalendarHandler) Day(c *fiber.Ctx) error {
	userID := GetUserID(c)

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, want YYYY-MM-DD",
		})
	}

	items, err := h.s.Day(c.Context(), userID, day, splitFilter(c.Query("platforms")), splitFilter(c.Query("statuses")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"items": items,
	})
}

func splitFilter(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
