package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "socialdeck/configs"
	"socialdeck/internal/models"
)

// Bucket per platform; YouTube and GMB share the Google bucket.
const (
	BucketFacebook  = "Facebook"
	BucketInstagram = "Instagram"
	BucketGoogle    = "Google"
)

func BucketForPlatform(platform string) string {
	switch strings.ToLower(platform) {
	case models.PlatformFacebook:
		return BucketFacebook
	case models.PlatformInstagram:
		return BucketInstagram
	default:
		return BucketGoogle
	}
}

type StorageService struct {
	config cfg.Config
}

func NewStorageService(cfg cfg.Config) *StorageService {
	return &StorageService{config: cfg}
}

func (r *StorageService) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

// Upload puts the file into the platform's bucket and returns its public URL.
func (r *StorageService) Upload(ctx context.Context, platform, key string, file []byte, contentType string) (string, error) {
	bucket := BucketForPlatform(platform)

	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return r.PublicURL(bucket, key), nil
}

// ListKeys returns the most recent object keys under a prefix in the
// platform's bucket, used for the recent-uploads picker.
func (r *StorageService) ListKeys(ctx context.Context, platform, prefix string, limit int32) ([]string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(BucketForPlatform(platform)),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(limit),
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

func (r *StorageService) Delete(ctx context.Context, platform, key string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(BucketForPlatform(platform)),
		Key:    aws.String(key),
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *StorageService) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(r.config.R2.PublicURL, "/"), bucket, key)
}

// IsStorageURL reports whether a media URL points at our own bucket, which
// decides between streaming a download and redirecting to the origin.
func (r *StorageService) IsStorageURL(mediaURL string) bool {
	return r.config.R2.PublicURL != "" && strings.HasPrefix(mediaURL, r.config.R2.PublicURL)
}
