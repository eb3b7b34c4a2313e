package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialdeck/internal/models"
	"socialdeck/internal/repository"
)

const calendarDayFormat = "2006-01-02"

// CalendarItem is the union of a scheduled post and a business-profile post,
// flattened to what the calendar needs to render a cell.
type CalendarItem struct {
	ID          int64      `json:"id"`
	Source      string     `json:"source"`
	Platform    string     `json:"platform"`
	Content     string     `json:"content"`
	MediaURL    string     `json:"media_url,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Permalink   string     `json:"permalink,omitempty"`
}

const (
	CalendarSourcePost = "post"
	CalendarSourceGmb  = "gmb"
)

type CalendarService interface {
	Month(ctx context.Context, userID int64, year int, month time.Month) (map[string][]CalendarItem, error)
	Day(ctx context.Context, userID int64, day time.Time, platforms, statuses []string) ([]CalendarItem, error)
}

type calendarService struct {
	sp repository.ScheduledPostRepository
	g  repository.GmbRepository
}

func NewCalendarService(sp repository.ScheduledPostRepository, g repository.GmbRepository) CalendarService {
	return &calendarService{
		sp: sp,
		g:  g,
	}
}

// Month fetches both post sources concurrently and buckets them by day key.
// Posted posts land on their posted day, pending ones on their scheduled day.
func (s *calendarService) Month(ctx context.Context, userID int64, year int, month time.Month) (map[string][]CalendarItem, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	items, err := s.fetchRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]CalendarItem)
	for _, item := range items {
		key := itemDay(item).Format(calendarDayFormat)
		buckets[key] = append(buckets[key], item)
	}
	for _, bucket := range buckets {
		sortCalendarItems(bucket)
	}
	return buckets, nil
}

func (s *calendarService) Day(ctx context.Context, userID int64, day time.Time, platforms, statuses []string) ([]CalendarItem, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	items, err := s.fetchRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	platformSet := toSet(platforms)
	statusSet := toSet(statuses)

	filtered := make([]CalendarItem, 0, len(items))
	for _, item := range items {
		if len(platformSet) > 0 && !platformSet[item.Platform] {
			continue
		}
		if len(statusSet) > 0 && !statusSet[item.Status] {
			continue
		}
		filtered = append(filtered, item)
	}
	sortCalendarItems(filtered)
	return filtered, nil
}

func (s *calendarService) fetchRange(ctx context.Context, userID int64, from, to time.Time) ([]CalendarItem, error) {
	var (
		wg       sync.WaitGroup
		posts    []*models.ScheduledPost
		gmbPosts []*models.GmbPost
		postErr  error
		gmbErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postErr = s.sp.ListByUserIDAndRange(ctx, userID, from, to)
	}()
	go func() {
		defer wg.Done()
		gmbPosts, gmbErr = s.g.ListPostsByUserIDAndRange(ctx, userID, from, to)
	}()
	wg.Wait()

	if postErr != nil {
		return nil, postErr
	}
	if gmbErr != nil {
		return nil, gmbErr
	}

	items := make([]CalendarItem, 0, len(posts)+len(gmbPosts))
	for _, post := range posts {
		items = append(items, CalendarItem{
			ID:          post.ID,
			Source:      CalendarSourcePost,
			Platform:    post.Platform,
			Content:     post.Content,
			MediaURL:    post.MediaURL,
			Status:      post.Status,
			ScheduledAt: post.ScheduledAt,
			PostedAt:    post.PostedAt,
			Permalink:   post.Permalink,
		})
	}
	for _, post := range gmbPosts {
		items = append(items, CalendarItem{
			ID:          post.ID,
			Source:      CalendarSourceGmb,
			Platform:    models.PlatformGmb,
			Content:     post.Summary,
			MediaURL:    post.MediaURL,
			Status:      post.Status,
			ScheduledAt: post.ScheduledAt,
			PostedAt:    post.PostedAt,
			Permalink:   post.SearchURL,
		})
	}
	return items, nil
}

func itemDay(item CalendarItem) time.Time {
	if item.PostedAt != nil {
		return item.PostedAt.UTC()
	}
	return item.ScheduledAt.UTC()
}

func sortCalendarItems(items []CalendarItem) {
	sort.Slice(items, func(i, j int) bool {
		return itemDay(items[i]).Before(itemDay(items[j]))
	})
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
