package models

import "time"

type Alert struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	AlertKindPostSuccess  = "post_success"
	AlertKindPostFailed   = "post_failed"
	AlertKindTokenExpired = "token_expired"
)
