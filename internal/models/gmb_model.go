package models

import "time"

type GmbLocation struct {
	ID         int64     `db:"id" json:"id"`
	AccountID  int64     `db:"account_id" json:"account_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Title      string    `db:"title" json:"title"`
	Address    string    `db:"address" json:"address,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type GmbPost struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	LocationID   int64      `db:"location_id" json:"location_id"`
	Summary      string     `db:"summary" json:"summary"`
	MediaURL     string     `db:"media_url" json:"media_url,omitempty"`
	CtaType      string     `db:"cta_type" json:"cta_type,omitempty"`
	CtaURL       string     `db:"cta_url" json:"cta_url,omitempty"`
	ScheduledAt  time.Time  `db:"scheduled_at" json:"scheduled_at"`
	PostedAt     *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	Status       string     `db:"status" json:"status"`
	SearchURL    string     `db:"search_url" json:"search_url,omitempty"`
	ErrorMessage string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	CtaLearnMore = "LEARN_MORE"
	CtaBook      = "BOOK"
	CtaOrder     = "ORDER"
	CtaShop      = "SHOP"
	CtaSignUp    = "SIGN_UP"
	CtaCall      = "CALL"
)

func IsValidCtaType(t string) bool {
	switch t {
	case CtaLearnMore, CtaBook, CtaOrder, CtaShop, CtaSignUp, CtaCall:
		return true
	}
	return false
}
