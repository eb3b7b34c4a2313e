package models

import (
	"time"

	"github.com/lib/pq"
)

type ScheduledPost struct {
	ID           int64          `db:"id" json:"id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	AccountID    int64          `db:"account_id" json:"account_id"`
	Platform     string         `db:"platform" json:"platform"`
	PostType     string         `db:"post_type" json:"post_type"`
	Content      string         `db:"content" json:"content"`
	Title        string         `db:"title" json:"title,omitempty"`
	MediaURL     string         `db:"media_url" json:"media_url,omitempty"`
	MediaURLs    pq.StringArray `db:"media_urls" json:"media_urls,omitempty"`
	ScheduledAt  time.Time      `db:"scheduled_at" json:"scheduled_at"`
	PostedAt     *time.Time     `db:"posted_at" json:"posted_at,omitempty"`
	Status       string         `db:"status" json:"status"`
	Permalink    string         `db:"permalink" json:"permalink,omitempty"`
	ErrorMessage string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	PostTypeSingle   = "single"
	PostTypeCarousel = "carousel"

	PostStatusScheduled = "scheduled"
	PostStatusPending   = "pending"
	PostStatusSuccess   = "success"
	PostStatusFailed    = "failed"
)
