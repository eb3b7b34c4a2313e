package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
	"socialdeck/internal/transfer"
)

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

var ErrScheduledPostNotFound = errors.New("scheduled post not found")

type ScheduledPostService interface {
	Scheduler
	Create(ctx context.Context, userID int64, req *transfer.ScheduledPostCreation) (int64, error)
	Get(ctx context.Context, userID, postID int64) (*models.ScheduledPost, error)
	List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	Reschedule(ctx context.Context, userID, postID int64, scheduledAt time.Time) error
	Remove(ctx context.Context, userID, postID int64) error
}

type scheduledPostService struct {
	sp          repository.ScheduledPostRepository
	sa          repository.SocialAccountRepository
	asynqClient *asynq.Client
}

func NewScheduledPostService(
	sp repository.ScheduledPostRepository,
	sa repository.SocialAccountRepository,
	asynqClient *asynq.Client) ScheduledPostService {
	return &scheduledPostService{
		sp:          sp,
		sa:          sa,
		asynqClient: asynqClient,
	}
}

// Schedule stores the post and hands a delayed task to the queue. The row is
// the source of truth; the task only carries the post ID.
func (s *scheduledPostService) Schedule(ctx context.Context, account *models.SocialAccount, req *PublishRequest, at time.Time) (int64, error) {
	postType := models.PostTypeSingle
	if len(req.MediaURLs) > 0 {
		postType = models.PostTypeCarousel
	}

	post := &models.ScheduledPost{
		UserID:      account.UserID,
		AccountID:   account.ID,
		Platform:    account.Platform,
		PostType:    postType,
		Content:     req.Content,
		Title:       req.Title,
		MediaURL:    req.MediaURL,
		MediaURLs:   req.MediaURLs,
		ScheduledAt: at,
	}

	postID, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return 0, err
	}

	if err := s.enqueue(postID, at); err != nil {
		return 0, err
	}
	return postID, nil
}

func (s *scheduledPostService) enqueue(postID int64, at time.Time) error {
	taskPayload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)
	_, err = s.asynqClient.Enqueue(task, asynq.ProcessIn(time.Until(at)))
	if err != nil {
		return err
	}

	log.Printf("Task scheduled: post_id=%d at=%s", postID, at.Format(time.RFC3339))
	return nil
}

func (s *scheduledPostService) Create(ctx context.Context, userID int64, req *transfer.ScheduledPostCreation) (int64, error) {
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return 0, errors.New("invalid scheduled_at, want RFC3339")
	}
	if !scheduledAt.After(time.Now()) {
		return 0, errors.New("scheduled_at must be in the future")
	}
	if req.Content == "" {
		return 0, composer.ErrEmptyContent
	}
	if len(req.MediaURLs) > 0 {
		if len(req.MediaURLs) < composer.MinCarouselItems {
			return 0, composer.ErrCarouselTooFew
		}
		if len(req.MediaURLs) > composer.MaxCarouselItems {
			return 0, composer.ErrCarouselTooMany
		}
	}

	account, err := s.sa.GetByID(ctx, req.AccountID)
	if err != nil {
		return 0, err
	}
	if account == nil || account.UserID != userID {
		return 0, errors.New("social account not found")
	}

	publishReq := &PublishRequest{
		Content:   req.Content,
		Title:     req.Title,
		MediaURL:  req.MediaURL,
		MediaURLs: req.MediaURLs,
	}
	return s.Schedule(ctx, account, publishReq, scheduledAt)
}

func (s *scheduledPostService) Get(ctx context.Context, userID, postID int64) (*models.ScheduledPost, error) {
	post, err := s.sp.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.UserID != userID {
		return nil, ErrScheduledPostNotFound
	}
	return post, nil
}

func (s *scheduledPostService) List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return s.sp.ListByUserID(ctx, userID)
}

// Reschedule moves a still-pending post to a new time. The old queue task is
// not cancelled; the worker drops tasks whose post has moved past them.
func (s *scheduledPostService) Reschedule(ctx context.Context, userID, postID int64, scheduledAt time.Time) error {
	if !scheduledAt.After(time.Now()) {
		return errors.New("scheduled_at must be in the future")
	}

	post, err := s.Get(ctx, userID, postID)
	if err != nil {
		return err
	}
	if post.Status != models.PostStatusScheduled {
		return errors.New("only scheduled posts can be rescheduled")
	}

	if err := s.sp.UpdateSchedule(ctx, postID, scheduledAt); err != nil {
		return err
	}
	return s.enqueue(postID, scheduledAt)
}

func (s *scheduledPostService) Remove(ctx context.Context, userID, postID int64) error {
	exists, err := s.sp.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrScheduledPostNotFound
	}
	return s.sp.Remove(ctx, postID)
}
