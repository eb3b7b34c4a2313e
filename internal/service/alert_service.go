package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
)

// Matches the 30s polling cadence of the alert feed.
const unreadCountTTL = 30 * time.Second

type AlertService interface {
	Notify(ctx context.Context, userID int64, kind, message string)
	List(ctx context.Context, userID int64) ([]*models.Alert, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type alertService struct {
	ar  repository.AlertRepository
	rdb redis.Cmdable
}

func NewAlertService(ar repository.AlertRepository, rdb redis.Cmdable) AlertService {
	return &alertService{ar: ar, rdb: rdb}
}

func unreadCountKey(userID int64) string {
	return fmt.Sprintf("alerts:unread:%d", userID)
}

// Notify records an alert; failures are logged and swallowed so an alert
// write never fails the operation it describes.
func (s *alertService) Notify(ctx context.Context, userID int64, kind, message string) {
	alert := models.Alert{
		UserID:  userID,
		Kind:    kind,
		Message: message,
	}
	if _, err := s.ar.Create(ctx, &alert); err != nil {
		slog.Error("failed to save alert", "user_id", userID, "error", err)
		return
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
			slog.Info(err.Error())
		}
	}
}

func (s *alertService) List(ctx context.Context, userID int64) ([]*models.Alert, error) {
	alerts, err := s.ar.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting alerts")
	}
	return alerts, nil
}

// UnreadCount serves the 30s polling endpoint from a short-lived Redis cache,
// falling back to the database on a miss or a Redis error.
func (s *alertService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	key := unreadCountKey(userID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			if count, convErr := strconv.ParseInt(cached, 10, 64); convErr == nil {
				return count, nil
			}
		} else if err != redis.Nil {
			slog.Info(err.Error())
		}
	}

	count, err := s.ar.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, strconv.FormatInt(count, 10), unreadCountTTL).Err(); err != nil {
			slog.Info(err.Error())
		}
	}

	return count, nil
}

func (s *alertService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.ar.MarkAllRead(ctx, userID); err != nil {
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
			slog.Info(err.Error())
		}
	}
	return nil
}
