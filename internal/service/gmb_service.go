package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "socialdeck/configs"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
	"socialdeck/internal/transfer"
	"socialdeck/pkg/utils"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrCtaURLMissing    = errors.New("a call-to-action URL is required for this action type")
	ErrUnknownCtaType   = errors.New("unknown call-to-action type")
)

type GmbService interface {
	Publisher
	SyncLocations(ctx context.Context, userID int64, accountID int64) ([]*models.GmbLocation, error)
	ListLocations(ctx context.Context, userID int64) ([]*models.GmbLocation, error)
	CreatePost(ctx context.Context, userID, locationID int64, req *transfer.GmbPostRequest) (*models.GmbPost, error)
	ListPosts(ctx context.Context, userID int64) ([]*models.GmbPost, error)
	ListPostsByLocation(ctx context.Context, userID, locationID int64) ([]*models.GmbPost, error)
	UpdatePost(ctx context.Context, userID, postID int64, req *transfer.GmbPostRequest) error
	DeletePost(ctx context.Context, userID, postID int64) error
}

type gmbService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
	g   repository.GmbRepository
}

func NewGmbService(cfg config.Config, sa repository.SocialAccountRepository, g repository.GmbRepository) GmbService {
	return &gmbService{
		cfg: cfg,
		sa:  sa,
		g:   g,
	}
}

// SyncLocations pulls the account's locations from the My Business API and
// upserts them, so repeated syncs refresh titles without duplicating rows.
func (s *gmbService) SyncLocations(ctx context.Context, userID int64, accountID int64) ([]*models.GmbLocation, error) {
	account, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID {
		return nil, errors.New("social account not found")
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/accounts/%s/locations", s.cfg.GmbAPIURL, account.ExternalID)
	body, err := s.apiGet(ctx, reqURL, accessToken)
	if err != nil {
		return nil, err
	}

	var result transfer.GmbLocationsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	locations := make([]*models.GmbLocation, 0, len(result.Locations))
	for _, resource := range result.Locations {
		loc := &models.GmbLocation{
			AccountID:  account.ID,
			UserID:     userID,
			ExternalID: resource.Name,
			Title:      resource.LocationName,
			Address:    formatAddress(resource),
		}

		id, err := s.g.UpsertLocation(ctx, loc)
		if err != nil {
			return nil, err
		}
		loc.ID = id
		locations = append(locations, loc)
	}
	return locations, nil
}

func formatAddress(resource transfer.GmbLocationResource) string {
	address := resource.Address.Locality
	if len(resource.Address.AddressLines) > 0 {
		if address != "" {
			address = resource.Address.AddressLines[0] + ", " + address
		} else {
			address = resource.Address.AddressLines[0]
		}
	}
	return address
}

func (s *gmbService) ListLocations(ctx context.Context, userID int64) ([]*models.GmbLocation, error) {
	return s.g.ListLocationsByUserID(ctx, userID)
}

func (s *gmbService) CreatePost(ctx context.Context, userID, locationID int64, req *transfer.GmbPostRequest) (*models.GmbPost, error) {
	if err := validateCta(req.CtaType, req.CtaURL); err != nil {
		return nil, err
	}

	loc, err := s.g.GetLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.UserID != userID {
		return nil, ErrLocationNotFound
	}

	scheduledAt := time.Now()
	if req.ScheduledAt != "" {
		scheduledAt, err = time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return nil, errors.New("invalid scheduled_at, want RFC3339")
		}
	}

	post := &models.GmbPost{
		UserID:      userID,
		LocationID:  locationID,
		Summary:     req.Summary,
		MediaURL:    req.MediaURL,
		CtaType:     req.CtaType,
		CtaURL:      req.CtaURL,
		ScheduledAt: scheduledAt,
		Status:      models.PostStatusPending,
	}

	id, err := s.g.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id

	account, err := s.sa.GetByID(ctx, loc.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("social account not found")
	}

	searchURL, err := s.publishLocalPost(ctx, account, loc, localPostFromRequest(req))
	now := time.Now()
	if err != nil {
		post.Status = models.PostStatusFailed
		post.ErrorMessage = err.Error()
		_ = s.g.UpdatePostStatus(ctx, id, models.PostStatusFailed, "", err.Error(), nil)
		return post, err
	}

	post.Status = models.PostStatusSuccess
	post.SearchURL = searchURL
	post.PostedAt = &now
	if err := s.g.UpdatePostStatus(ctx, id, models.PostStatusSuccess, searchURL, "", &now); err != nil {
		return nil, err
	}
	return post, nil
}

func localPostFromRequest(req *transfer.GmbPostRequest) *transfer.GmbLocalPost {
	localPost := &transfer.GmbLocalPost{
		Summary:      req.Summary,
		LanguageCode: "en",
	}
	if req.MediaURL != "" {
		localPost.Media = []struct {
			MediaFormat string `json:"mediaFormat"`
			SourceURL   string `json:"sourceUrl"`
		}{
			{MediaFormat: "PHOTO", SourceURL: req.MediaURL},
		}
	}
	if req.CtaType != "" {
		localPost.CallToAction = &transfer.GmbCallToAction{
			ActionType: req.CtaType,
			URL:        req.CtaURL,
		}
	}
	return localPost
}

// validateCta enforces the API's call-to-action rules: every action type
// except CALL needs a target URL.
func validateCta(ctaType, ctaURL string) error {
	if ctaType == "" {
		return nil
	}
	if !models.IsValidCtaType(ctaType) {
		return ErrUnknownCtaType
	}
	if ctaType != models.CtaCall && ctaURL == "" {
		return ErrCtaURLMissing
	}
	return nil
}

func (s *gmbService) ListPosts(ctx context.Context, userID int64) ([]*models.GmbPost, error) {
	return s.g.ListPostsByUserID(ctx, userID)
}

func (s *gmbService) ListPostsByLocation(ctx context.Context, userID, locationID int64) ([]*models.GmbPost, error) {
	exists, err := s.g.CheckLocationByUserID(ctx, locationID, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrLocationNotFound
	}
	return s.g.ListPostsByLocationID(ctx, locationID)
}

func (s *gmbService) UpdatePost(ctx context.Context, userID, postID int64, req *transfer.GmbPostRequest) error {
	if err := validateCta(req.CtaType, req.CtaURL); err != nil {
		return err
	}

	exists, err := s.g.CheckPostByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("post not found")
	}

	post, err := s.g.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	post.Summary = req.Summary
	post.MediaURL = req.MediaURL
	post.CtaType = req.CtaType
	post.CtaURL = req.CtaURL
	if req.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return errors.New("invalid scheduled_at, want RFC3339")
		}
		post.ScheduledAt = scheduledAt
	}

	return s.g.UpdatePost(ctx, post)
}

func (s *gmbService) DeletePost(ctx context.Context, userID, postID int64) error {
	exists, err := s.g.CheckPostByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("post not found")
	}
	return s.g.RemovePost(ctx, postID)
}

// Publish pushes the post to every location synced for the account. The first
// search URL returned becomes the permalink shown in the dashboard.
func (s *gmbService) Publish(ctx context.Context, account *models.SocialAccount, req *PublishRequest) (string, error) {
	if err := validateCta(req.CtaType, req.CtaURL); err != nil {
		return "", err
	}

	locations, err := s.g.ListLocationsByUserID(ctx, account.UserID)
	if err != nil {
		return "", err
	}

	accountLocations := make([]*models.GmbLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.AccountID == account.ID {
			accountLocations = append(accountLocations, loc)
		}
	}
	if len(accountLocations) == 0 {
		return "", errors.New("no business locations synced for this account")
	}

	localPost := &transfer.GmbLocalPost{
		Summary:      req.Content,
		LanguageCode: "en",
	}
	if req.MediaURL != "" {
		localPost.Media = []struct {
			MediaFormat string `json:"mediaFormat"`
			SourceURL   string `json:"sourceUrl"`
		}{
			{MediaFormat: "PHOTO", SourceURL: req.MediaURL},
		}
	}
	if req.CtaType != "" {
		localPost.CallToAction = &transfer.GmbCallToAction{
			ActionType: req.CtaType,
			URL:        req.CtaURL,
		}
	}

	var permalink string
	for _, loc := range accountLocations {
		searchURL, err := s.publishLocalPost(ctx, account, loc, localPost)
		if err != nil {
			return "", err
		}
		if permalink == "" {
			permalink = searchURL
		}
	}
	return permalink, nil
}

func (s *gmbService) publishLocalPost(ctx context.Context, account *models.SocialAccount, loc *models.GmbLocation, localPost *transfer.GmbLocalPost) (string, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(localPost)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/localPosts", s.cfg.GmbAPIURL, loc.ExternalID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(ExtractAPIError(body))
	}

	var created transfer.GmbLocalPost
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	return created.SearchURL, nil
}

func (s *gmbService) apiGet(ctx context.Context, reqURL, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(ExtractAPIError(body))
	}
	return body, nil
}
