package handlers

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	config "socialdeck/configs"
	"socialdeck/internal/models"
	"socialdeck/internal/service"
	"socialdeck/pkg/utils"
)

type AccountHandler struct {
	as  service.AccountService
	fb  service.FacebookService
	ig  service.InstagramService
	yt  service.YoutubeService
	cfg config.Config
}

func NewAccountHandler(
	as service.AccountService,
	fb service.FacebookService,
	ig service.InstagramService,
	yt service.YoutubeService,
	cfg config.Config) *AccountHandler {
	return &AccountHandler{
		as:  as,
		fb:  fb,
		ig:  ig,
		yt:  yt,
		cfg: cfg,
	}
}

func (h *AccountHandler) AddSocialAccount(c *fiber.Ctx) error {
	authURL := h.as.GetAuthURL(c.Context(), c.Params("platform"), c.Query("state"))
	if authURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}
	return c.Redirect(authURL)
}

func (h *AccountHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	platform := c.Params("platform")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	switch platform {
	case models.PlatformFacebook:
		err = h.fb.FacebookCallback(c.Context(), code, userID)
	case models.PlatformInstagram:
		err = h.ig.InstagramCallback(c.Context(), code, userID)
	case models.PlatformYoutube, models.PlatformGmb:
		err = h.yt.YoutubeCallback(c.Context(), code, userID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

// ListSocialAccounts returns the user's accounts grouped by platform.
func (h *AccountHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	grouped, err := h.as.ListGrouped(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"accounts": grouped,
	})
}

func (h *AccountHandler) AccountInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	account, err := h.as.Info(c.Context(), userID, accountID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(account)
}

func (h *AccountHandler) RemoveAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	if err := h.as.Delete(c.Context(), userID, accountID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
