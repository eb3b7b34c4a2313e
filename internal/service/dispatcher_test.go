package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/transfer"
)

type stubAccountRepo struct {
	accounts map[int64]*models.SocialAccount
}

func (s *stubAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	return 0, nil
}

func (s *stubAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	return s.accounts[id], nil
}

func (s *stubAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (s *stubAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (s *stubAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	acc, ok := s.accounts[accountID]
	return ok && acc.UserID == userID, nil
}

func (s *stubAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, sa *models.SocialAccount) error {
	return nil
}

func (s *stubAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type stubPublisher struct {
	calls   []int64
	failFor map[int64]error
}

func (s *stubPublisher) Publish(ctx context.Context, account *models.SocialAccount, req *PublishRequest) (string, error) {
	s.calls = append(s.calls, account.ID)
	if err, ok := s.failFor[account.ID]; ok {
		return "", err
	}
	return "https://example.com/post", nil
}

type stubScheduler struct {
	calls []int64
	at    []time.Time
}

func (s *stubScheduler) Schedule(ctx context.Context, account *models.SocialAccount, req *PublishRequest, at time.Time) (int64, error) {
	s.calls = append(s.calls, account.ID)
	s.at = append(s.at, at)
	return int64(len(s.calls)), nil
}

type stubAlerts struct {
	kinds []string
}

func (s *stubAlerts) Notify(ctx context.Context, userID int64, kind, message string) {
	s.kinds = append(s.kinds, kind)
}

func (s *stubAlerts) List(ctx context.Context, userID int64) ([]*models.Alert, error) {
	return nil, nil
}

func (s *stubAlerts) UnreadCount(ctx context.Context, userID int64) (int64, error) { return 0, nil }

func (s *stubAlerts) MarkAllRead(ctx context.Context, userID int64) error { return nil }

func testAccounts() *stubAccountRepo {
	return &stubAccountRepo{accounts: map[int64]*models.SocialAccount{
		1: {ID: 1, UserID: 7, Platform: models.PlatformInstagram, DisplayName: "brand_ig_one"},
		2: {ID: 2, UserID: 7, Platform: models.PlatformInstagram, DisplayName: "brand_ig_two"},
		3: {ID: 3, UserID: 7, Platform: models.PlatformFacebook, DisplayName: "Brand Page"},
		9: {ID: 9, UserID: 99, Platform: models.PlatformFacebook, DisplayName: "someone else"},
	}}
}

func draftWith(accountIDs map[int64]string) *composer.Draft {
	d := composer.New()
	d.Content = "launch day"
	for id, platform := range accountIDs {
		d.SelectAccount(id, platform)
	}
	return d
}

func TestDispatchPostsToEverySelectedAccount(t *testing.T) {
	pub := &stubPublisher{}
	alerts := &stubAlerts{}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
		models.PlatformFacebook:  pub,
	}, &stubScheduler{}, alerts)

	draft := draftWith(map[int64]string{
		1: models.PlatformInstagram,
		2: models.PlatformInstagram,
		3: models.PlatformFacebook,
	})

	results, message, err := d.Dispatch(context.Background(), 7, draft)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, pub.calls)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK)
		assert.NotEmpty(t, r.Permalink)
	}
	assert.Equal(t, "Queued successfully for 3 account(s)", message)
	assert.Empty(t, alerts.kinds)
}

func TestDispatchContinuesPastFailures(t *testing.T) {
	pub := &stubPublisher{failFor: map[int64]error{
		2: errors.New("token expired"),
	}}
	alerts := &stubAlerts{}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
		models.PlatformFacebook:  pub,
	}, &stubScheduler{}, alerts)

	draft := draftWith(map[int64]string{
		1: models.PlatformInstagram,
		2: models.PlatformInstagram,
		3: models.PlatformFacebook,
	})

	results, message, err := d.Dispatch(context.Background(), 7, draft)
	require.NoError(t, err)

	// The failing account must not stop the ones after it.
	assert.Equal(t, []int64{1, 2, 3}, pub.calls)
	assert.False(t, results[1].OK)
	assert.Contains(t, message, "Queued successfully for 2 account(s), 1 failed:")
	assert.Contains(t, message, "brand_ig_two (instagram): token expired")
	assert.Equal(t, []string{models.AlertKindPostFailed}, alerts.kinds)
}

func TestDispatchAllAccountsFailing(t *testing.T) {
	pub := &stubPublisher{failFor: map[int64]error{
		1: errors.New("boom"),
		3: errors.New("boom"),
	}}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
		models.PlatformFacebook:  pub,
	}, &stubScheduler{}, &stubAlerts{})

	draft := draftWith(map[int64]string{
		1: models.PlatformInstagram,
		3: models.PlatformFacebook,
	})

	_, message, err := d.Dispatch(context.Background(), 7, draft)
	require.NoError(t, err)
	assert.Contains(t, message, "Failed to queue for all 2 account(s):")
}

func TestDispatchRejectsEmptySelection(t *testing.T) {
	pub := &stubPublisher{}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
	}, &stubScheduler{}, &stubAlerts{})

	_, _, err := d.Dispatch(context.Background(), 7, draftWith(nil))
	assert.ErrorIs(t, err, composer.ErrNoAccounts)
	assert.Empty(t, pub.calls)
}

func TestDispatchSchedulesInsteadOfPublishing(t *testing.T) {
	pub := &stubPublisher{}
	sched := &stubScheduler{}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
	}, sched, &stubAlerts{})

	draft := draftWith(map[int64]string{1: models.PlatformInstagram})
	at := time.Now().Add(2 * time.Hour)
	draft.ScheduledAt = &at

	_, message, err := d.Dispatch(context.Background(), 7, draft)
	require.NoError(t, err)

	assert.Empty(t, pub.calls)
	assert.Equal(t, []int64{1}, sched.calls)
	assert.Equal(t, "Scheduled successfully for 1 account(s)", message)
}

func TestDispatchRejectsForeignAccountPerResult(t *testing.T) {
	pub := &stubPublisher{}
	d := NewDispatcher(testAccounts(), map[string]Publisher{
		models.PlatformInstagram: pub,
		models.PlatformFacebook:  pub,
	}, &stubScheduler{}, &stubAlerts{})

	draft := draftWith(map[int64]string{
		1: models.PlatformInstagram,
		9: models.PlatformFacebook,
	})

	results, _, err := d.Dispatch(context.Background(), 7, draft)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, pub.calls)
	assert.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "account 9 does not exist")
}

func TestSummarizeCountsAndVerbs(t *testing.T) {
	assert.Equal(t, "Queued successfully for 0 account(s)", Summarize(nil, false))
	assert.Equal(t, "Scheduled successfully for 0 account(s)", Summarize(nil, true))

	failed := []transfer.DispatchResult{
		{AccountID: 1, Platform: "instagram", DisplayName: "brand_ig", Error: "token expired"},
	}
	assert.Equal(t, "Failed to queue for all 1 account(s):\nbrand_ig (instagram): token expired",
		Summarize(failed, false))
	assert.Equal(t, "Failed to schedule for all 1 account(s):\nbrand_ig (instagram): token expired",
		Summarize(failed, true))
}
