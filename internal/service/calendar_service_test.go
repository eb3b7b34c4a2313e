package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialdeck/internal/models"
)

type stubScheduledPostRepo struct {
	posts []*models.ScheduledPost
}

func (s *stubScheduledPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	s.posts = append(s.posts, post)
	return int64(len(s.posts)), nil
}

func (s *stubScheduledPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubScheduledPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubScheduledPostRepo) ListByUserIDAndRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, p := range s.posts {
		at := p.ScheduledAt
		if p.PostedAt != nil {
			at = *p.PostedAt
		}
		if p.UserID == userID && !at.Before(from) && at.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubScheduledPostRepo) UpdateStatus(ctx context.Context, postID int64, status, permalink, errorMessage string, postedAt *time.Time) error {
	return nil
}

func (s *stubScheduledPostRepo) UpdateSchedule(ctx context.Context, postID int64, scheduledAt time.Time) error {
	return nil
}

func (s *stubScheduledPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	for _, p := range s.posts {
		if p.ID == postID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubScheduledPostRepo) Remove(ctx context.Context, id int64) error { return nil }

type stubGmbRepo struct {
	locations []*models.GmbLocation
	posts     []*models.GmbPost
}

func (s *stubGmbRepo) UpsertLocation(ctx context.Context, loc *models.GmbLocation) (int64, error) {
	s.locations = append(s.locations, loc)
	return int64(len(s.locations)), nil
}

func (s *stubGmbRepo) GetLocationByID(ctx context.Context, id int64) (*models.GmbLocation, error) {
	for _, l := range s.locations {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (s *stubGmbRepo) ListLocationsByUserID(ctx context.Context, userID int64) ([]*models.GmbLocation, error) {
	var out []*models.GmbLocation
	for _, l := range s.locations {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubGmbRepo) CheckLocationByUserID(ctx context.Context, locationID, userID int64) (bool, error) {
	for _, l := range s.locations {
		if l.ID == locationID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubGmbRepo) CreatePost(ctx context.Context, post *models.GmbPost) (int64, error) {
	s.posts = append(s.posts, post)
	return int64(len(s.posts)), nil
}

func (s *stubGmbRepo) GetPostByID(ctx context.Context, id int64) (*models.GmbPost, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubGmbRepo) ListPostsByLocationID(ctx context.Context, locationID int64) ([]*models.GmbPost, error) {
	return nil, nil
}

func (s *stubGmbRepo) ListPostsByUserID(ctx context.Context, userID int64) ([]*models.GmbPost, error) {
	return s.posts, nil
}

func (s *stubGmbRepo) ListPostsByUserIDAndRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.GmbPost, error) {
	var out []*models.GmbPost
	for _, p := range s.posts {
		at := p.ScheduledAt
		if p.PostedAt != nil {
			at = *p.PostedAt
		}
		if p.UserID == userID && !at.Before(from) && at.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubGmbRepo) UpdatePost(ctx context.Context, post *models.GmbPost) error { return nil }

func (s *stubGmbRepo) UpdatePostStatus(ctx context.Context, postID int64, status, searchURL, errorMessage string, postedAt *time.Time) error {
	return nil
}

func (s *stubGmbRepo) CheckPostByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	for _, p := range s.posts {
		if p.ID == postID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubGmbRepo) RemovePost(ctx context.Context, id int64) error { return nil }

func TestCalendarMonthBucketsBothSources(t *testing.T) {
	day1 := time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.August, 4, 18, 30, 0, 0, time.UTC)

	sp := &stubScheduledPostRepo{posts: []*models.ScheduledPost{
		{ID: 1, UserID: 7, Platform: models.PlatformInstagram, Content: "ig post", ScheduledAt: day2, Status: models.PostStatusScheduled},
	}}
	gmb := &stubGmbRepo{posts: []*models.GmbPost{
		{ID: 1, UserID: 7, Summary: "store opening", ScheduledAt: day1, PostedAt: &day1, Status: models.PostStatusSuccess},
	}}

	svc := NewCalendarService(sp, gmb)

	buckets, err := svc.Month(context.Background(), 7, 2026, time.August)
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	require.Len(t, buckets["2026-08-03"], 1)
	require.Len(t, buckets["2026-08-04"], 1)
	assert.Equal(t, CalendarSourceGmb, buckets["2026-08-03"][0].Source)
	assert.Equal(t, CalendarSourcePost, buckets["2026-08-04"][0].Source)
	assert.Equal(t, models.PlatformGmb, buckets["2026-08-03"][0].Platform)
}

func TestCalendarMonthExcludesOtherMonths(t *testing.T) {
	sp := &stubScheduledPostRepo{posts: []*models.ScheduledPost{
		{ID: 1, UserID: 7, Platform: models.PlatformFacebook, ScheduledAt: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewCalendarService(sp, &stubGmbRepo{})

	buckets, err := svc.Month(context.Background(), 7, 2026, time.August)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestCalendarDayFilters(t *testing.T) {
	day := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	sp := &stubScheduledPostRepo{posts: []*models.ScheduledPost{
		{ID: 1, UserID: 7, Platform: models.PlatformInstagram, ScheduledAt: day.Add(9 * time.Hour), Status: models.PostStatusScheduled},
		{ID: 2, UserID: 7, Platform: models.PlatformFacebook, ScheduledAt: day.Add(10 * time.Hour), Status: models.PostStatusFailed},
	}}
	svc := NewCalendarService(sp, &stubGmbRepo{})

	all, err := svc.Day(context.Background(), 7, day, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyInstagram, err := svc.Day(context.Background(), 7, day, []string{models.PlatformInstagram}, nil)
	require.NoError(t, err)
	require.Len(t, onlyInstagram, 1)
	assert.Equal(t, int64(1), onlyInstagram[0].ID)

	onlyFailed, err := svc.Day(context.Background(), 7, day, nil, []string{models.PostStatusFailed})
	require.NoError(t, err)
	require.Len(t, onlyFailed, 1)
	assert.Equal(t, int64(2), onlyFailed[0].ID)
}

func TestCalendarDayOrdersByTime(t *testing.T) {
	day := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	sp := &stubScheduledPostRepo{posts: []*models.ScheduledPost{
		{ID: 1, UserID: 7, Platform: models.PlatformInstagram, ScheduledAt: day.Add(15 * time.Hour)},
		{ID: 2, UserID: 7, Platform: models.PlatformFacebook, ScheduledAt: day.Add(8 * time.Hour)},
	}}
	svc := NewCalendarService(sp, &stubGmbRepo{})

	items, err := svc.Day(context.Background(), 7, day, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
}
