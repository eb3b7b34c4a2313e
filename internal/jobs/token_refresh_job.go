package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"socialdeck/internal/models"
	"socialdeck/internal/repository"
	"socialdeck/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	fb service.FacebookService
	ig service.InstagramService
	yt service.YoutubeService
	al service.AlertService
}

func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	fb service.FacebookService,
	ig service.InstagramService,
	yt service.YoutubeService,
	al service.AlertService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		fb: fb,
		ig: ig,
		yt: yt,
		al: al,
	}
}

// RefreshTokens renews every token expiring within the next 30 minutes.
// YouTube and GMB share Google credentials, so both go through the same
// refresh path.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListByTimeInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			var err error
			switch acc.Platform {
			case models.PlatformFacebook:
				err = c.fb.RefreshFacebookToken(ctx, acc.UserID, acc.AccessToken)
			case models.PlatformInstagram:
				err = c.ig.RefreshInstagramToken(ctx, acc.UserID, acc.RefreshToken)
			case models.PlatformYoutube, models.PlatformGmb:
				err = c.yt.RefreshYoutubeToken(ctx, acc.UserID, acc.AccessToken, acc.RefreshToken)
			}

			if err != nil {
				slog.Info("Unable to refresh tokens", "platform", acc.Platform, "account_id", acc.ID)
				c.al.Notify(ctx, acc.UserID, models.AlertKindTokenExpired,
					fmt.Sprintf("The connection to %s (%s) is expiring, please reconnect the account", acc.DisplayName, acc.Platform))
			}
		}(acc)
	}

	wg.Wait()
}
