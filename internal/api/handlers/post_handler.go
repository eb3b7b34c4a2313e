package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"socialdeck/internal/composer"
	"socialdeck/internal/service"
	"socialdeck/internal/transfer"
)

var errInvalidScheduledAt = errors.New("invalid scheduled_at, want RFC3339")

type PostHandler struct {
	d  service.Dispatcher
	as service.AccountService
	ms service.MediaService
	fb service.FacebookService
	ig service.InstagramService
	yt service.YoutubeService
}

func NewPostHandler(
	d service.Dispatcher,
	as service.AccountService,
	ms service.MediaService,
	fb service.FacebookService,
	ig service.InstagramService,
	yt service.YoutubeService) *PostHandler {
	return &PostHandler{
		d:  d,
		as: as,
		ms: ms,
		fb: fb,
		ig: ig,
		yt: yt,
	}
}

// Dispatch publishes one composition to every selected account in order and
// returns the per-account results plus an aggregate status message.
func (h *PostHandler) Dispatch(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.DispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	draft, err := h.buildDraft(c, userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results, message, err := h.d.Dispatch(c.Context(), userID, draft)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
		"results": results,
	})
}

func (h *PostHandler) buildDraft(c *fiber.Ctx, userID int64, req *transfer.DispatchRequest) (*composer.Draft, error) {
	draft := composer.New()
	draft.Content = req.Content
	draft.Title = req.Title
	draft.Visibility = req.Visibility
	draft.CtaType = req.CtaType
	draft.CtaURL = req.CtaURL

	if req.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return nil, errInvalidScheduledAt
		}
		draft.ScheduledAt = &scheduledAt
	}

	for _, accountID := range req.SelectedAccounts {
		platform := ""
		if account, err := h.as.Info(c.Context(), userID, accountID); err == nil {
			platform = account.Platform
		}
		// Unknown accounts stay selected so the dispatch reports them
		// as individual failures instead of rejecting the batch.
		draft.SelectAccount(accountID, platform)
	}

	if req.MediaURL != "" {
		file, err := h.resolveMedia(c, userID, req.MediaURL)
		if err != nil {
			return nil, err
		}
		draft.SetSingleMedia(*file)
	}
	for _, mediaURL := range req.MediaURLs {
		file, err := h.resolveMedia(c, userID, mediaURL)
		if err != nil {
			return nil, err
		}
		draft.AddCarouselItem(*file)
	}

	return draft, nil
}

func (h *PostHandler) resolveMedia(c *fiber.Ctx, userID int64, mediaURL string) (*composer.MediaFile, error) {
	asset, err := h.ms.Resolve(c.Context(), userID, mediaURL)
	if err != nil {
		return nil, err
	}

	kind := composer.MediaKindImage
	if strings.HasPrefix(asset.FileType, "video") {
		kind = composer.MediaKindVideo
	}

	return &composer.MediaFile{
		Name: asset.FileName,
		Kind: kind,
		Size: asset.FileSize,
		URL:  asset.FileURL,
	}, nil
}

func (h *PostHandler) FacebookPost(c *fiber.Ctx) error {
	var req transfer.FacebookPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	publishReq := &service.PublishRequest{
		Content:   req.Message,
		MediaURL:  req.MediaURL,
		MediaURLs: req.MediaURLs,
	}
	if req.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": errInvalidScheduledAt.Error(),
			})
		}
		publishReq.ScheduledAt = &scheduledAt
	}

	return h.publishDirect(c, publishReq, h.fb)
}

func (h *PostHandler) InstagramPost(c *fiber.Ctx) error {
	var req transfer.InstagramPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return h.publishDirect(c, &service.PublishRequest{
		Content:   req.Caption,
		MediaURL:  req.MediaURL,
		MediaURLs: req.MediaURLs,
	}, h.ig)
}

func (h *PostHandler) YoutubeUpload(c *fiber.Ctx) error {
	var req transfer.YoutubeUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return h.publishDirect(c, &service.PublishRequest{
		Content:    req.Description,
		Title:      req.Title,
		Visibility: req.Visibility,
		MediaURL:   req.MediaURL,
		MediaKind:  composer.MediaKindVideo,
	}, h.yt)
}

// publishDirect is the single-account path shared by the platform-specific
// endpoints.
func (h *PostHandler) publishDirect(c *fiber.Ctx, req *service.PublishRequest, publisher service.Publisher) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
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

	if req.MediaURL != "" {
		if asset, err := h.ms.Resolve(c.Context(), userID, req.MediaURL); err == nil {
			if strings.HasPrefix(asset.FileType, "video") {
				req.MediaKind = composer.MediaKindVideo
			} else {
				req.MediaKind = composer.MediaKindImage
			}
		}
	}

	permalink, err := publisher.Publish(c.Context(), account, req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"permalink": permalink,
	})
}
