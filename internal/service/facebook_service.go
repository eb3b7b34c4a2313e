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
	"net/url"
	"time"

	config "socialdeck/configs"
	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
	"socialdeck/internal/transfer"
	"socialdeck/pkg/utils"
)

type FacebookService interface {
	Publisher
	FacebookCallback(ctx context.Context, code string, userID int64) error
	RefreshFacebookToken(ctx context.Context, userID int64, accessToken string) error
}

type facebookService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewFacebookService(cfg config.Config, sa repository.SocialAccountRepository) FacebookService {
	return &facebookService{
		cfg: cfg,
		sa:  sa,
	}
}

// FacebookCallback exchanges the OAuth code for a long-lived user token and
// connects every page the user manages as its own social account.
func (s *facebookService) FacebookCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	userToken, err := s.exchangeCode(ctx, code)
	if err != nil {
		return err
	}

	longLived, expiresAt, err := s.extendToken(ctx, userToken)
	if err != nil {
		return err
	}

	pages, err := s.listPages(ctx, longLived)
	if err != nil {
		return err
	}
	if len(pages.Data) == 0 {
		return errors.New("no Facebook pages available for this user")
	}

	for _, page := range pages.Data {
		encryptedToken, err := utils.Encrypt([]byte(page.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}

		accountInfo := &models.SocialAccount{
			UserID:         userID,
			Platform:       models.PlatformFacebook,
			ExternalID:     page.ID,
			DisplayName:    page.Name,
			ProfilePicture: page.Picture.Data.URL,
			AccessToken:    encryptedToken,
			RefreshToken:   encryptedToken,
			TokenExpiresAt: expiresAt,
		}
		if _, err := s.sa.Create(ctx, nil, accountInfo); err != nil {
			return err
		}
	}

	return nil
}

func (s *facebookService) exchangeCode(ctx context.Context, code string) (string, error) {
	params := url.Values{}
	params.Set("client_id", s.cfg.FacebookAppID)
	params.Set("client_secret", s.cfg.FacebookAppSecret)
	params.Set("redirect_uri", s.cfg.FacebookRedirectURI)
	params.Set("code", code)

	token, _, err := s.tokenRequest(ctx, params)
	return token, err
}

func (s *facebookService) extendToken(ctx context.Context, shortToken string) (string, time.Time, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.cfg.FacebookAppID)
	params.Set("client_secret", s.cfg.FacebookAppSecret)
	params.Set("fb_exchange_token", shortToken)

	token, expiresAt, err := s.tokenRequest(ctx, params)
	return token, expiresAt, err
}

func (s *facebookService) tokenRequest(ctx context.Context, params url.Values) (string, time.Time, error) {
	reqURL := fmt.Sprintf("%s/oauth/access_token?%s", s.cfg.FacebookGraphURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", time.Time{}, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, fmt.Errorf("failed to get Facebook token: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("facebook token error: %s", ExtractAPIError(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %v", err)
	}

	return result.AccessToken, GetExpiresAt(result.ExpiresIn), nil
}

func (s *facebookService) listPages(ctx context.Context, userToken string) (*transfer.FacebookPagesResponse, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?fields=id,name,access_token,picture&access_token=%s", s.cfg.FacebookGraphURL, url.QueryEscape(userToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

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
		return nil, fmt.Errorf("facebook pages error: %s", ExtractAPIError(body))
	}

	var pages transfer.FacebookPagesResponse
	if err := json.Unmarshal(body, &pages); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &pages, nil
}

func (s *facebookService) RefreshFacebookToken(ctx context.Context, userID int64, accessToken string) error {
	decryptedToken, err := utils.Decrypt(accessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	newToken, expiresAt, err := s.extendToken(ctx, decryptedToken)
	if err != nil {
		return err
	}

	encryptedToken, err := utils.Encrypt([]byte(newToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	socialAccount := models.SocialAccount{
		AccessToken:    encryptedToken,
		RefreshToken:   encryptedToken,
		TokenExpiresAt: expiresAt,
	}

	return s.sa.SetToken(ctx, userID, accessToken, &socialAccount)
}

// Publish posts to the account's page: /feed for text, /photos for a single
// image, /videos for video, and unpublished photos stitched into one /feed
// post for a carousel. A schedule time maps to the page's native
// scheduled_publish_time.
func (s *facebookService) Publish(ctx context.Context, account *models.SocialAccount, req *PublishRequest) (string, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	switch {
	case len(req.MediaURLs) > 0:
		return s.publishCarousel(ctx, account.ExternalID, accessToken, req)
	case req.MediaURL != "":
		return s.publishSingle(ctx, account.ExternalID, accessToken, req)
	default:
		return s.publishText(ctx, account.ExternalID, accessToken, req)
	}
}

func (s *facebookService) publishText(ctx context.Context, pageID, accessToken string, req *PublishRequest) (string, error) {
	payload := map[string]interface{}{
		"message":      req.Content,
		"access_token": accessToken,
	}
	addSchedule(payload, req)

	result, err := s.graphPost(ctx, fmt.Sprintf("%s/%s/feed", s.cfg.FacebookGraphURL, pageID), payload)
	if err != nil {
		return "", err
	}
	return facebookPermalink(result), nil
}

func (s *facebookService) publishSingle(ctx context.Context, pageID, accessToken string, req *PublishRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/photos", s.cfg.FacebookGraphURL, pageID)
	payload := map[string]interface{}{
		"url":          req.MediaURL,
		"message":      req.Content,
		"access_token": accessToken,
	}

	if req.MediaKind == composer.MediaKindVideo {
		endpoint = fmt.Sprintf("%s/%s/videos", s.cfg.FacebookGraphURL, pageID)
		payload = map[string]interface{}{
			"file_url":     req.MediaURL,
			"description":  req.Content,
			"access_token": accessToken,
		}
	}
	addSchedule(payload, req)

	result, err := s.graphPost(ctx, endpoint, payload)
	if err != nil {
		return "", err
	}
	return facebookPermalink(result), nil
}

func (s *facebookService) publishCarousel(ctx context.Context, pageID, accessToken string, req *PublishRequest) (string, error) {
	attached := make([]map[string]string, 0, len(req.MediaURLs))
	for _, mediaURL := range req.MediaURLs {
		result, err := s.graphPost(ctx, fmt.Sprintf("%s/%s/photos", s.cfg.FacebookGraphURL, pageID), map[string]interface{}{
			"url":          mediaURL,
			"published":    false,
			"access_token": accessToken,
		})
		if err != nil {
			return "", err
		}
		attached = append(attached, map[string]string{"media_fbid": result.ID})
	}

	payload := map[string]interface{}{
		"message":        req.Content,
		"attached_media": attached,
		"access_token":   accessToken,
	}
	addSchedule(payload, req)

	result, err := s.graphPost(ctx, fmt.Sprintf("%s/%s/feed", s.cfg.FacebookGraphURL, pageID), payload)
	if err != nil {
		return "", err
	}
	return facebookPermalink(result), nil
}

func (s *facebookService) graphPost(ctx context.Context, endpoint string, payload map[string]interface{}) (*transfer.GraphIDResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(ExtractAPIError(respBody))
	}

	var result transfer.GraphIDResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == "" && result.PostID == "" {
		return nil, errors.New("no post ID returned from Facebook")
	}
	return &result, nil
}

func addSchedule(payload map[string]interface{}, req *PublishRequest) {
	if req.ScheduledAt != nil {
		payload["published"] = false
		payload["scheduled_publish_time"] = req.ScheduledAt.Unix()
	}
}

func facebookPermalink(result *transfer.GraphIDResponse) string {
	id := result.PostID
	if id == "" {
		id = result.ID
	}
	return fmt.Sprintf("https://www.facebook.com/%s", id)
}
