package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"socialdeck/internal/models"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Alert, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type alertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) (int64, error) {
	query := `
		INSERT INTO alerts (user_id, kind, message)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, alert.UserID, alert.Kind, alert.Message).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *alertRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Alert, error) {
	query := `SELECT id, user_id, kind, message, read, created_at
		FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Message, &a.Read, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

func (r *alertRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE user_id = $1 AND read = FALSE`

	var count int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *alertRepository) MarkAllRead(ctx context.Context, userID int64) error {
	query := `UPDATE alerts SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
