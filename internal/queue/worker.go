package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"socialdeck/internal/models"
	"socialdeck/internal/service"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload service.PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	j.PublishPost(payload.PostID)

	return nil
}

// PublishPost runs one due post through its platform publisher and records
// the outcome. Stale tasks, left behind by reschedules and deletes, are
// dropped by re-checking the row first.
func (j *Queue) PublishPost(postID int64) error {
	ctx := context.Background()

	post, err := j.sp.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("Post %d no longer exists, dropping task", postID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("Post %d already handled (status %s), dropping task", postID, post.Status)
		return nil
	}
	if time.Until(post.ScheduledAt) > time.Minute {
		log.Printf("Post %d was rescheduled to %s, dropping task", postID, post.ScheduledAt.Format(time.RFC3339))
		return nil
	}

	account, err := j.sa.GetByID(ctx, post.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return j.markFailed(ctx, post, "social account no longer connected")
	}

	if err := j.sp.UpdateStatus(ctx, postID, models.PostStatusPending, "", "", nil); err != nil {
		return err
	}

	publisher, ok := j.publishers[account.Platform]
	if !ok {
		return j.markFailed(ctx, post, fmt.Sprintf("no publisher for platform %s", account.Platform))
	}

	req := &service.PublishRequest{
		Content:   post.Content,
		Title:     post.Title,
		MediaURL:  post.MediaURL,
		MediaURLs: post.MediaURLs,
	}

	permalink, err := publisher.Publish(ctx, account, req)
	if err != nil {
		log.Printf("Error posting to %s for PostID %d: %v", account.Platform, postID, err)
		return j.markFailed(ctx, post, err.Error())
	}

	now := time.Now()
	if err := j.sp.UpdateStatus(ctx, postID, models.PostStatusSuccess, permalink, "", &now); err != nil {
		return err
	}

	j.alerts.Notify(ctx, post.UserID, models.AlertKindPostSuccess,
		fmt.Sprintf("Scheduled post to %s (%s) was published", account.DisplayName, account.Platform))
	return nil
}

func (j *Queue) markFailed(ctx context.Context, post *models.ScheduledPost, message string) error {
	if err := j.sp.UpdateStatus(ctx, post.ID, models.PostStatusFailed, "", message, nil); err != nil {
		return err
	}
	j.alerts.Notify(ctx, post.UserID, models.AlertKindPostFailed,
		fmt.Sprintf("Scheduled post %d failed: %s", post.ID, message))
	return nil
}
