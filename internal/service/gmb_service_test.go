package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "socialdeck/configs"
	"socialdeck/internal/models"
	"socialdeck/internal/transfer"
	"socialdeck/pkg/utils"
)

func testGmbAccount(t *testing.T) *models.SocialAccount {
	t.Helper()
	token, err := utils.Encrypt([]byte("gmb-token"), []byte(testSecretKey))
	require.NoError(t, err)
	return &models.SocialAccount{
		ID:          4,
		UserID:      7,
		Platform:    models.PlatformGmb,
		ExternalID:  "1001",
		AccessToken: token,
	}
}

func TestValidateCta(t *testing.T) {
	assert.NoError(t, validateCta("", ""))
	assert.NoError(t, validateCta(models.CtaLearnMore, "https://example.com"))
	assert.NoError(t, validateCta(models.CtaCall, ""))

	assert.ErrorIs(t, validateCta(models.CtaShop, ""), ErrCtaURLMissing)
	assert.ErrorIs(t, validateCta("DANCE", "https://example.com"), ErrUnknownCtaType)
}

func TestGmbPublishPostsToEveryLocation(t *testing.T) {
	var paths []string
	var payloads []transfer.GmbLocalPost
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var post transfer.GmbLocalPost
		require.NoError(t, json.NewDecoder(r.Body).Decode(&post))
		payloads = append(payloads, post)
		assert.Equal(t, "Bearer gmb-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(transfer.GmbLocalPost{SearchURL: "https://posts.gle/" + r.URL.Path})
	}))
	defer server.Close()

	account := testGmbAccount(t)
	repo := &stubGmbRepo{locations: []*models.GmbLocation{
		{ID: 1, AccountID: account.ID, UserID: 7, ExternalID: "accounts/1001/locations/5"},
		{ID: 2, AccountID: account.ID, UserID: 7, ExternalID: "accounts/1001/locations/6"},
		{ID: 3, AccountID: 999, UserID: 7, ExternalID: "accounts/2/locations/1"},
	}}
	svc := NewGmbService(config.Config{SecretKey: testSecretKey, GmbAPIURL: server.URL}, &stubAccountRepo{}, repo)

	permalink, err := svc.Publish(context.Background(), account, &PublishRequest{
		Content: "weekend offer",
		CtaType: models.CtaShop,
		CtaURL:  "https://example.com/shop",
	})
	require.NoError(t, err)

	// Only the account's own locations receive the post.
	assert.Equal(t, []string{
		"/accounts/1001/locations/5/localPosts",
		"/accounts/1001/locations/6/localPosts",
	}, paths)
	assert.NotEmpty(t, permalink)

	for _, payload := range payloads {
		assert.Equal(t, "weekend offer", payload.Summary)
		require.NotNil(t, payload.CallToAction)
		assert.Equal(t, models.CtaShop, payload.CallToAction.ActionType)
	}
}

func TestGmbPublishRejectsMissingCtaURL(t *testing.T) {
	svc := NewGmbService(config.Config{SecretKey: testSecretKey}, &stubAccountRepo{}, &stubGmbRepo{})

	_, err := svc.Publish(context.Background(), testGmbAccount(t), &PublishRequest{
		Content: "offer",
		CtaType: models.CtaSignUp,
	})
	assert.ErrorIs(t, err, ErrCtaURLMissing)
}

func TestGmbPublishWithoutLocations(t *testing.T) {
	svc := NewGmbService(config.Config{SecretKey: testSecretKey}, &stubAccountRepo{}, &stubGmbRepo{})

	_, err := svc.Publish(context.Background(), testGmbAccount(t), &PublishRequest{Content: "offer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no business locations")
}

func TestGmbSyncLocationsUpserts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/1001/locations", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"locations": []map[string]interface{}{
				{
					"name":         "accounts/1001/locations/5",
					"locationName": "Downtown Store",
					"address": map[string]interface{}{
						"addressLines": []string{"1 Main St"},
						"locality":     "Springfield",
					},
				},
			},
		})
	}))
	defer server.Close()

	account := testGmbAccount(t)
	accounts := &stubAccountRepo{accounts: map[int64]*models.SocialAccount{account.ID: account}}
	repo := &stubGmbRepo{}
	svc := NewGmbService(config.Config{SecretKey: testSecretKey, GmbAPIURL: server.URL}, accounts, repo)

	locations, err := svc.SyncLocations(context.Background(), 7, account.ID)
	require.NoError(t, err)

	require.Len(t, locations, 1)
	assert.Equal(t, "accounts/1001/locations/5", locations[0].ExternalID)
	assert.Equal(t, "Downtown Store", locations[0].Title)
	assert.Equal(t, "1 Main St, Springfield", locations[0].Address)
	assert.Len(t, repo.locations, 1)
}
