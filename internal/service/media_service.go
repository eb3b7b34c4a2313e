package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
)

// ObjectStore is the slice of StorageService the media resolver needs.
type ObjectStore interface {
	Upload(ctx context.Context, platform, key string, file []byte, contentType string) (string, error)
	ListKeys(ctx context.Context, platform, prefix string, limit int32) ([]string, error)
	PublicURL(bucket, key string) string
}

type MediaService interface {
	Upload(ctx context.Context, userID, accountID int64, platform, fileName string, file []byte) (*models.MediaAsset, error)
	Resolve(ctx context.Context, userID int64, fileURL string) (*models.MediaAsset, error)
	ListRecent(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
}

type mediaService struct {
	ma    repository.MediaAssetRepository
	sa    repository.SocialAccountRepository
	store ObjectStore
}

func NewMediaService(ma repository.MediaAssetRepository, sa repository.SocialAccountRepository, store ObjectStore) MediaService {
	return &mediaService{ma: ma, sa: sa, store: store}
}

var allowedExtensions = map[string]string{
	"jpg":  composer.MediaKindImage,
	"jpeg": composer.MediaKindImage,
	"png":  composer.MediaKindImage,
	"mp4":  composer.MediaKindVideo,
	"mov":  composer.MediaKindVideo,
}

// Upload sniffs the file, enforces the platform and storage-tier ceilings,
// stores the bytes in the platform's bucket under a key scoped to the first
// selected account, and records the asset. Oversized or unsupported files are
// rejected before any network call.
func (s *mediaService) Upload(ctx context.Context, userID, accountID int64, platform, fileName string, file []byte) (*models.MediaAsset, error) {
	fileType, err := filetype.Match(file)
	if err != nil || fileType == types.Unknown {
		return nil, errors.New("unsupported file type")
	}

	kind, ok := allowedExtensions[fileType.Extension]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	if err := composer.CheckFileSize(platform, kind, int64(len(file))); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key := fmt.Sprintf("%d/%s", accountID, id)

	fileURL, err := s.store.Upload(ctx, platform, key, file, fileType.MIME.Value)
	if err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	ma := models.MediaAsset{
		UserID:   userID,
		Platform: platform,
		FileName: fileName,
		FileType: fileType.MIME.Value,
		FileSize: int64(len(file)),
		FileURL:  fileURL,
	}

	assetID, err := s.ma.Create(ctx, nil, &ma)
	if err != nil {
		return nil, err
	}
	ma.ID = assetID

	return &ma, nil
}

// Resolve attaches a previously uploaded file by URL without re-uploading.
func (s *mediaService) Resolve(ctx context.Context, userID int64, fileURL string) (*models.MediaAsset, error) {
	asset, err := s.ma.GetByURL(ctx, userID, fileURL)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, errors.New("media file not found in recent uploads")
	}
	return asset, nil
}

// ListRecent merges the recorded asset rows with a listing of the user's
// account prefixes in each platform bucket, so objects whose rows were
// deleted still show up in the picker.
func (s *mediaService) ListRecent(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	assets, err := s.ma.ListRecentByUserID(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("error listing recent uploads")
	}

	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		seen[a.FileURL] = true
	}

	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing recent uploads")
	}

	for _, account := range accounts {
		keys, err := s.store.ListKeys(ctx, account.Platform, fmt.Sprintf("%d/", account.ID), 50)
		if err != nil {
			// Bucket listing is best effort; the recorded rows stand alone.
			slog.Info(err.Error())
			continue
		}
		for _, key := range keys {
			fileURL := s.store.PublicURL(BucketForPlatform(account.Platform), key)
			if seen[fileURL] {
				continue
			}
			seen[fileURL] = true
			assets = append(assets, &models.MediaAsset{
				UserID:   userID,
				Platform: account.Platform,
				FileName: key[strings.LastIndex(key, "/")+1:],
				FileURL:  fileURL,
			})
		}
	}
	return assets, nil
}
