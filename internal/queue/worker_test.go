package queue

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialdeck/internal/models"
	"socialdeck/internal/service"
)

type statusChange struct {
	postID    int64
	status    string
	permalink string
	message   string
}

type workerPostRepo struct {
	post    *models.ScheduledPost
	changes []statusChange
}

func (r *workerPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	return 0, nil
}

func (r *workerPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	if r.post != nil && r.post.ID == id {
		return r.post, nil
	}
	return nil, nil
}

func (r *workerPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (r *workerPostRepo) ListByUserIDAndRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (r *workerPostRepo) UpdateStatus(ctx context.Context, postID int64, status, permalink, errorMessage string, postedAt *time.Time) error {
	r.changes = append(r.changes, statusChange{postID, status, permalink, errorMessage})
	return nil
}

func (r *workerPostRepo) UpdateSchedule(ctx context.Context, postID int64, scheduledAt time.Time) error {
	return nil
}

func (r *workerPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (r *workerPostRepo) Remove(ctx context.Context, id int64) error { return nil }

type workerAccountRepo struct {
	account *models.SocialAccount
}

func (r *workerAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	return 0, nil
}

func (r *workerAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	if r.account != nil && r.account.ID == id {
		return r.account, nil
	}
	return nil, nil
}

func (r *workerAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *workerAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *workerAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *workerAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (r *workerAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, sa *models.SocialAccount) error {
	return nil
}

func (r *workerAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type workerPublisher struct {
	permalink string
	err       error
	calls     int
}

func (p *workerPublisher) Publish(ctx context.Context, account *models.SocialAccount, req *service.PublishRequest) (string, error) {
	p.calls++
	return p.permalink, p.err
}

type workerAlerts struct {
	kinds []string
}

func (a *workerAlerts) Notify(ctx context.Context, userID int64, kind, message string) {
	a.kinds = append(a.kinds, kind)
}

func (a *workerAlerts) List(ctx context.Context, userID int64) ([]*models.Alert, error) {
	return nil, nil
}

func (a *workerAlerts) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func (a *workerAlerts) MarkAllRead(ctx context.Context, userID int64) error { return nil }

func duePost() *models.ScheduledPost {
	return &models.ScheduledPost{
		ID:          42,
		UserID:      7,
		AccountID:   1,
		Platform:    models.PlatformInstagram,
		PostType:    models.PostTypeSingle,
		Content:     "launch day",
		Status:      models.PostStatusScheduled,
		ScheduledAt: time.Now(),
	}
}

func newWorkerFixture(post *models.ScheduledPost, pub *workerPublisher) (*Queue, *workerPostRepo, *workerAlerts) {
	posts := &workerPostRepo{post: post}
	accounts := &workerAccountRepo{account: &models.SocialAccount{
		ID:          1,
		UserID:      7,
		Platform:    models.PlatformInstagram,
		DisplayName: "brand_ig",
	}}
	alerts := &workerAlerts{}
	q := NewQueue(posts, accounts, map[string]service.Publisher{
		models.PlatformInstagram: pub,
	}, alerts)
	return q, posts, alerts
}

func TestPublishPostMarksSuccess(t *testing.T) {
	pub := &workerPublisher{permalink: "https://instagram.com/p/abc"}
	q, posts, alerts := newWorkerFixture(duePost(), pub)

	err := q.PublishPost(42)
	require.NoError(t, err)
	assert.Equal(t, 1, pub.calls)

	require.Len(t, posts.changes, 2)
	assert.Equal(t, models.PostStatusPending, posts.changes[0].status)
	assert.Equal(t, models.PostStatusSuccess, posts.changes[1].status)
	assert.Equal(t, "https://instagram.com/p/abc", posts.changes[1].permalink)
	assert.Equal(t, []string{models.AlertKindPostSuccess}, alerts.kinds)
}

func TestPublishPostMarksFailure(t *testing.T) {
	pub := &workerPublisher{err: errors.New("token expired")}
	q, posts, alerts := newWorkerFixture(duePost(), pub)

	err := q.PublishPost(42)
	require.NoError(t, err)

	require.Len(t, posts.changes, 2)
	assert.Equal(t, models.PostStatusFailed, posts.changes[1].status)
	assert.Equal(t, "token expired", posts.changes[1].message)
	assert.Equal(t, []string{models.AlertKindPostFailed}, alerts.kinds)
}

func TestPublishPostDropsMissingRow(t *testing.T) {
	pub := &workerPublisher{}
	q, posts, _ := newWorkerFixture(nil, pub)

	err := q.PublishPost(42)
	require.NoError(t, err)
	assert.Zero(t, pub.calls)
	assert.Empty(t, posts.changes)
}

func TestPublishPostDropsAlreadyHandled(t *testing.T) {
	post := duePost()
	post.Status = models.PostStatusSuccess
	pub := &workerPublisher{}
	q, posts, _ := newWorkerFixture(post, pub)

	err := q.PublishPost(42)
	require.NoError(t, err)
	assert.Zero(t, pub.calls)
	assert.Empty(t, posts.changes)
}

func TestPublishPostDropsRescheduled(t *testing.T) {
	post := duePost()
	post.ScheduledAt = time.Now().Add(2 * time.Hour)
	pub := &workerPublisher{}
	q, posts, _ := newWorkerFixture(post, pub)

	err := q.PublishPost(42)
	require.NoError(t, err)
	assert.Zero(t, pub.calls)
	assert.Empty(t, posts.changes)
}

func TestPublishPostFailsWhenAccountGone(t *testing.T) {
	post := duePost()
	post.AccountID = 99
	pub := &workerPublisher{}
	q, posts, alerts := newWorkerFixture(post, pub)

	err := q.PublishPost(42)
	require.NoError(t, err)
	assert.Zero(t, pub.calls)

	require.Len(t, posts.changes, 1)
	assert.Equal(t, models.PostStatusFailed, posts.changes[0].status)
	assert.Equal(t, "social account no longer connected", posts.changes[0].message)
	assert.Equal(t, []string{models.AlertKindPostFailed}, alerts.kinds)
}
