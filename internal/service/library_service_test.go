package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "socialdeck/configs"
	"socialdeck/internal/models"
)

type stubMediaAssetRepo struct {
	assets     map[int64]*models.MediaAsset
	failRemove map[int64]bool
	removed    []int64
}

func (s *stubMediaAssetRepo) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	id := int64(len(s.assets) + 1)
	s.assets[id] = ma
	return id, nil
}

func (s *stubMediaAssetRepo) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return s.assets[id], nil
}

func (s *stubMediaAssetRepo) GetByURL(ctx context.Context, userID int64, fileURL string) (*models.MediaAsset, error) {
	for _, a := range s.assets {
		if a.UserID == userID && a.FileURL == fileURL {
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubMediaAssetRepo) ListRecentByUserID(ctx context.Context, userID int64, limit int) ([]*models.MediaAsset, error) {
	var out []*models.MediaAsset
	for id := int64(1); id <= int64(len(s.assets)); id++ {
		a, ok := s.assets[id]
		if ok && a.UserID == userID {
			a.ID = id
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubMediaAssetRepo) Remove(ctx context.Context, id int64) error {
	if s.failRemove[id] {
		return errors.New("row locked")
	}
	delete(s.assets, id)
	s.removed = append(s.removed, id)
	return nil
}

func newLibraryFixture(ma *stubMediaAssetRepo, sp *stubScheduledPostRepo, g *stubGmbRepo) LibraryService {
	return NewLibraryService(ma, sp, g, NewStorageService(config.Config{}))
}

func TestLibraryListMergesAndDedupes(t *testing.T) {
	now := time.Now()
	ma := &stubMediaAssetRepo{assets: map[int64]*models.MediaAsset{
		1: {UserID: 7, FileName: "a.jpg", FileType: "image/jpeg", FileURL: "https://cdn/a.jpg", CreatedAt: now},
		2: {UserID: 7, FileName: "b.mp4", FileType: "video/mp4", FileURL: "https://cdn/b.mp4", CreatedAt: now},
	}}
	sp := &stubScheduledPostRepo{posts: []*models.ScheduledPost{
		{UserID: 7, MediaURL: "https://cdn/a.jpg", CreatedAt: now},
		{UserID: 7, MediaURLs: []string{"https://cdn/c.jpg", "https://cdn/c.jpg"}, CreatedAt: now},
	}}
	g := &stubGmbRepo{posts: []*models.GmbPost{
		{UserID: 7, MediaURL: "https://cdn/gmb.jpg", CreatedAt: now},
		{UserID: 7, MediaURL: "https://cdn/c.jpg", CreatedAt: now},
	}}

	items, err := newLibraryFixture(ma, sp, g).List(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, items, 4)

	byURL := make(map[string]MediaItem)
	for _, item := range items {
		byURL[item.URL] = item
	}
	// The upload wins the duplicate of a.jpg.
	assert.Equal(t, MediaSourceUpload, byURL["https://cdn/a.jpg"].Source)
	assert.Equal(t, MediaSourceUpload, byURL["https://cdn/b.mp4"].Source)
	assert.Equal(t, MediaSourcePost, byURL["https://cdn/c.jpg"].Source)
	assert.Equal(t, MediaSourcePost, byURL["https://cdn/gmb.jpg"].Source)
}

func TestLibraryBulkDeleteContinuesPastFailures(t *testing.T) {
	ma := &stubMediaAssetRepo{
		assets: map[int64]*models.MediaAsset{
			1: {UserID: 7, FileURL: "https://cdn/a.jpg"},
			2: {UserID: 7, FileURL: "https://cdn/b.jpg"},
			3: {UserID: 7, FileURL: "https://cdn/c.jpg"},
		},
		failRemove: map[int64]bool{2: true},
	}

	result, err := newLibraryFixture(ma, &stubScheduledPostRepo{}, &stubGmbRepo{}).BulkDelete(context.Background(), 7, []int64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "media asset 2")
	assert.Equal(t, []int64{1, 3}, ma.removed)
}

func TestLibraryBulkDeleteRejectsForeignAssets(t *testing.T) {
	ma := &stubMediaAssetRepo{assets: map[int64]*models.MediaAsset{
		1: {UserID: 99, FileURL: "https://cdn/a.jpg"},
	}}

	result, err := newLibraryFixture(ma, &stubScheduledPostRepo{}, &stubGmbRepo{}).BulkDelete(context.Background(), 7, []int64{1})
	require.NoError(t, err)

	assert.Zero(t, result.Deleted)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "not found")
	assert.Empty(t, ma.removed)
}
