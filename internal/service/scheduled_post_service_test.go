package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/transfer"
)

func testScheduledPost(id, userID int64) *models.ScheduledPost {
	return &models.ScheduledPost{
		ID:          id,
		UserID:      userID,
		AccountID:   1,
		Platform:    models.PlatformInstagram,
		PostType:    models.PostTypeSingle,
		Content:     "hello",
		Status:      models.PostStatusScheduled,
		ScheduledAt: time.Now().Add(time.Hour),
	}
}

func TestScheduledPostCreateRejectsBadTimes(t *testing.T) {
	svc := NewScheduledPostService(&stubScheduledPostRepo{}, testAccounts(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, &transfer.ScheduledPostCreation{
		AccountID:   1,
		Content:     "later",
		ScheduledAt: "tomorrow at nine",
	})
	assert.ErrorContains(t, err, "RFC3339")

	_, err = svc.Create(ctx, 7, &transfer.ScheduledPostCreation{
		AccountID:   1,
		Content:     "later",
		ScheduledAt: time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	assert.ErrorContains(t, err, "in the future")
}

func TestScheduledPostCreateEnforcesDraftRules(t *testing.T) {
	svc := NewScheduledPostService(&stubScheduledPostRepo{}, testAccounts(), nil)
	ctx := context.Background()
	future := time.Now().Add(time.Hour).Format(time.RFC3339)

	_, err := svc.Create(ctx, 7, &transfer.ScheduledPostCreation{
		AccountID:   1,
		ScheduledAt: future,
	})
	assert.ErrorIs(t, err, composer.ErrEmptyContent)

	_, err = svc.Create(ctx, 7, &transfer.ScheduledPostCreation{
		AccountID:   1,
		Content:     "later",
		MediaURLs:   []string{"https://cdn/a.jpg"},
		ScheduledAt: future,
	})
	assert.ErrorIs(t, err, composer.ErrCarouselTooFew)

	urls := make([]string, 11)
	for i := range urls {
		urls[i] = "https://cdn/img.jpg"
	}
	_, err = svc.Create(ctx, 7, &transfer.ScheduledPostCreation{
		AccountID:   1,
		Content:     "later",
		MediaURLs:   urls,
		ScheduledAt: future,
	})
	assert.ErrorIs(t, err, composer.ErrCarouselTooMany)
}

func TestScheduledPostCreateRejectsForeignAccount(t *testing.T) {
	svc := NewScheduledPostService(&stubScheduledPostRepo{}, testAccounts(), nil)

	_, err := svc.Create(context.Background(), 7, &transfer.ScheduledPostCreation{
		AccountID:   9,
		Content:     "later",
		ScheduledAt: time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	assert.ErrorContains(t, err, "not found")
}

func TestScheduledPostGetEnforcesOwnership(t *testing.T) {
	repo := &stubScheduledPostRepo{}
	repo.posts = append(repo.posts, testScheduledPost(1, 7), testScheduledPost(2, 99))
	svc := NewScheduledPostService(repo, testAccounts(), nil)

	post, err := svc.Get(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.NotNil(t, post)

	_, err = svc.Get(context.Background(), 7, 2)
	assert.ErrorIs(t, err, ErrScheduledPostNotFound)
}

func TestScheduledPostRemoveEnforcesOwnership(t *testing.T) {
	repo := &stubScheduledPostRepo{}
	repo.posts = append(repo.posts, testScheduledPost(1, 99))
	svc := NewScheduledPostService(repo, testAccounts(), nil)

	err := svc.Remove(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrScheduledPostNotFound)
}
