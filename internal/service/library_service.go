package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialdeck/internal/models"
	"socialdeck/internal/repository"
)

const (
	MediaSourceUpload = "upload"
	MediaSourcePost   = "post"
)

// MediaItem is one entry in the library view, whether it came from a direct
// upload or was referenced by a post.
type MediaItem struct {
	AssetID   int64     `json:"asset_id,omitempty"`
	URL       string    `json:"url"`
	Name      string    `json:"name,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type BulkDeleteResult struct {
	Deleted  int      `json:"deleted"`
	Failures []string `json:"failures,omitempty"`
}

type LibraryService interface {
	List(ctx context.Context, userID int64) ([]MediaItem, error)
	Asset(ctx context.Context, userID, assetID int64) (*models.MediaAsset, error)
	BulkDelete(ctx context.Context, userID int64, assetIDs []int64) (*BulkDeleteResult, error)
	IsStorageURL(mediaURL string) bool
}

type libraryService struct {
	ma      repository.MediaAssetRepository
	sp      repository.ScheduledPostRepository
	g       repository.GmbRepository
	storage *StorageService
}

func NewLibraryService(
	ma repository.MediaAssetRepository,
	sp repository.ScheduledPostRepository,
	g repository.GmbRepository,
	storage *StorageService) LibraryService {
	return &libraryService{
		ma:      ma,
		sp:      sp,
		g:       g,
		storage: storage,
	}
}

// List merges uploaded assets with media referenced by posts, deduplicated by
// URL. Uploads win the duplicate since they carry file metadata.
func (s *libraryService) List(ctx context.Context, userID int64) ([]MediaItem, error) {
	assets, err := s.ma.ListRecentByUserID(ctx, userID, 50)
	if err != nil {
		return nil, err
	}

	posts, err := s.sp.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	items := make([]MediaItem, 0, len(assets))

	for _, asset := range assets {
		if asset.FileURL == "" || seen[asset.FileURL] {
			continue
		}
		seen[asset.FileURL] = true
		items = append(items, MediaItem{
			AssetID:   asset.ID,
			URL:       asset.FileURL,
			Name:      asset.FileName,
			Kind:      asset.FileType,
			Source:    MediaSourceUpload,
			CreatedAt: asset.CreatedAt,
		})
	}

	for _, post := range posts {
		urls := post.MediaURLs
		if post.MediaURL != "" {
			urls = append([]string{post.MediaURL}, urls...)
		}
		for _, mediaURL := range urls {
			if mediaURL == "" || seen[mediaURL] {
				continue
			}
			seen[mediaURL] = true
			items = append(items, MediaItem{
				URL:       mediaURL,
				Source:    MediaSourcePost,
				CreatedAt: post.CreatedAt,
			})
		}
	}

	gmbPosts, err := s.g.ListPostsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, post := range gmbPosts {
		if post.MediaURL == "" || seen[post.MediaURL] {
			continue
		}
		seen[post.MediaURL] = true
		items = append(items, MediaItem{
			URL:       post.MediaURL,
			Source:    MediaSourcePost,
			CreatedAt: post.CreatedAt,
		})
	}
	return items, nil
}

func (s *libraryService) Asset(ctx context.Context, userID, assetID int64) (*models.MediaAsset, error) {
	asset, err := s.ma.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil || asset.UserID != userID {
		return nil, fmt.Errorf("media asset %d not found", assetID)
	}
	return asset, nil
}

// BulkDelete removes each asset in turn. One failure never aborts the batch;
// it is reported alongside the count of successful deletions.
func (s *libraryService) BulkDelete(ctx context.Context, userID int64, assetIDs []int64) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{}

	for _, assetID := range assetIDs {
		asset, err := s.Asset(ctx, userID, assetID)
		if err != nil {
			result.Failures = append(result.Failures, err.Error())
			continue
		}

		if s.storage.IsStorageURL(asset.FileURL) {
			if err := s.storage.Delete(ctx, asset.Platform, s.storageKey(asset)); err != nil {
				slog.Info(err.Error())
				result.Failures = append(result.Failures, fmt.Sprintf("media asset %d: %s", assetID, err))
				continue
			}
		}

		if err := s.ma.Remove(ctx, assetID); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("media asset %d: %s", assetID, err))
			continue
		}
		result.Deleted++
	}
	return result, nil
}

func (s *libraryService) IsStorageURL(mediaURL string) bool {
	return s.storage.IsStorageURL(mediaURL)
}

func (s *libraryService) storageKey(asset *models.MediaAsset) string {
	prefix := s.storage.PublicURL(BucketForPlatform(asset.Platform), "")
	return strings.TrimPrefix(asset.FileURL, prefix)
}
