package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"socialdeck/internal/models"
)

type GmbRepository interface {
	UpsertLocation(ctx context.Context, loc *models.GmbLocation) (int64, error)
	GetLocationByID(ctx context.Context, id int64) (*models.GmbLocation, error)
	ListLocationsByUserID(ctx context.Context, userID int64) ([]*models.GmbLocation, error)
	CheckLocationByUserID(ctx context.Context, locationID, userID int64) (bool, error)

	CreatePost(ctx context.Context, post *models.GmbPost) (int64, error)
	GetPostByID(ctx context.Context, id int64) (*models.GmbPost, error)
	ListPostsByLocationID(ctx context.Context, locationID int64) ([]*models.GmbPost, error)
	ListPostsByUserID(ctx context.Context, userID int64) ([]*models.GmbPost, error)
	ListPostsByUserIDAndRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.GmbPost, error)
	UpdatePost(ctx context.Context, post *models.GmbPost) error
	UpdatePostStatus(ctx context.Context, postID int64, status, searchURL, errorMessage string, postedAt *time.Time) error
	CheckPostByUserID(ctx context.Context, postID, userID int64) (bool, error)
	RemovePost(ctx context.Context, id int64) error
}

type gmbRepository struct {
	db *sql.DB
}

func NewGmbRepository(db *sql.DB) GmbRepository {
	return &gmbRepository{db: db}
}

func (r *gmbRepository) UpsertLocation(ctx context.Context, loc *models.GmbLocation) (int64, error) {
	query := `
		INSERT INTO gmb_locations (account_id, user_id, external_id, title, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, external_id)
		DO UPDATE SET title = EXCLUDED.title, address = EXCLUDED.address
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, loc.AccountID, loc.UserID, loc.ExternalID, loc.Title, loc.Address).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *gmbRepository) GetLocationByID(ctx context.Context, id int64) (*models.GmbLocation, error) {
	query := `SELECT id, account_id, user_id, external_id, title, address, created_at FROM gmb_locations WHERE id = $1`

	var loc models.GmbLocation
	err := r.db.QueryRowContext(ctx, query, id).Scan(&loc.ID, &loc.AccountID, &loc.UserID,
		&loc.ExternalID, &loc.Title, &loc.Address, &loc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &loc, nil
}

func (r *gmbRepository) ListLocationsByUserID(ctx context.Context, userID int64) ([]*models.GmbLocation, error) {
	query := `SELECT id, account_id, user_id, external_id, title, address, created_at FROM gmb_locations WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var locations []*models.GmbLocation
	for rows.Next() {
		var loc models.GmbLocation
		err := rows.Scan(&loc.ID, &loc.AccountID, &loc.UserID, &loc.ExternalID, &loc.Title, &loc.Address, &loc.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}

func (r *gmbRepository) CheckLocationByUserID(ctx context.Context, locationID, userID int64) (bool, error) {
	query := "SELECT 1 FROM gmb_locations WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, locationID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

const gmbPostColumns = `id, user_id, location_id, summary, media_url, cta_type, cta_url,
	scheduled_at, posted_at, status, search_url, error_message, created_at, updated_at`

func scanGmbPost(row interface{ Scan(...interface{}) error }) (*models.GmbPost, error) {
	var post models.GmbPost
	err := row.Scan(&post.ID, &post.UserID, &post.LocationID, &post.Summary, &post.MediaURL,
		&post.CtaType, &post.CtaURL, &post.ScheduledAt, &post.PostedAt, &post.Status,
		&post.SearchURL, &post.ErrorMessage, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *gmbRepository) CreatePost(ctx context.Context, post *models.GmbPost) (int64, error) {
	query := `
		INSERT INTO gmb_posts (user_id, location_id, summary, media_url, cta_type, cta_url, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, post.UserID, post.LocationID, post.Summary,
		post.MediaURL, post.CtaType, post.CtaURL, post.ScheduledAt, post.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *gmbRepository) GetPostByID(ctx context.Context, id int64) (*models.GmbPost, error) {
	query := `SELECT ` + gmbPostColumns + ` FROM gmb_posts WHERE id = $1`
	post, err := scanGmbPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *gmbRepository) ListPostsByLocationID(ctx context.Context, locationID int64) ([]*models.GmbPost, error) {
	query := `SELECT ` + gmbPostColumns + ` FROM gmb_posts WHERE location_id = $1 ORDER BY scheduled_at DESC`
	return r.listPosts(ctx, query, locationID)
}

func (r *gmbRepository) ListPostsByUserID(ctx context.Context, userID int64) ([]*models.GmbPost, error) {
	query := `SELECT ` + gmbPostColumns + ` FROM gmb_posts WHERE user_id = $1 ORDER BY scheduled_at DESC`
	return r.listPosts(ctx, query, userID)
}

func (r *gmbRepository) ListPostsByUserIDAndRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.GmbPost, error) {
	query := `SELECT ` + gmbPostColumns + ` FROM gmb_posts
		WHERE user_id = $1 AND COALESCE(posted_at, scheduled_at) >= $2 AND COALESCE(posted_at, scheduled_at) < $3
		ORDER BY scheduled_at`
	return r.listPosts(ctx, query, userID, from, to)
}

func (r *gmbRepository) listPosts(ctx context.Context, query string, args ...interface{}) ([]*models.GmbPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.GmbPost
	for rows.Next() {
		post, err := scanGmbPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *gmbRepository) UpdatePost(ctx context.Context, post *models.GmbPost) error {
	query := `
		UPDATE gmb_posts
		SET summary = $1,
			media_url = $2,
			cta_type = $3,
			cta_url = $4,
			scheduled_at = $5,
			updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query, post.Summary, post.MediaURL, post.CtaType,
		post.CtaURL, post.ScheduledAt, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *gmbRepository) UpdatePostStatus(ctx context.Context, postID int64, status, searchURL, errorMessage string, postedAt *time.Time) error {
	query := `
		UPDATE gmb_posts
		SET status = $1,
			search_url = COALESCE(NULLIF($2, ''), search_url),
			error_message = $3,
			posted_at = COALESCE($4, posted_at),
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, status, searchURL, errorMessage, postedAt, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *gmbRepository) CheckPostByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM gmb_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *gmbRepository) RemovePost(ctx context.Context, id int64) error {
	query := `DELETE FROM gmb_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
