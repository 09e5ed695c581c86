package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/envutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type BucketCategory string

// BucketCategoryContent holds admin-uploaded site and course images.
const BucketCategoryContent BucketCategory = "content"

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key, contentType string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
}

type bucketConfig struct {
	name      string
	cdnDomain string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	storageCfg    ObjectStorageConfig
	content       bucketConfig
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	storageCfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	name := envutil.String("CONTENT_GCS_BUCKET", "")
	if name == "" {
		return nil, fmt.Errorf("missing env var CONTENT_GCS_BUCKET")
	}
	stClient, err := newStorageClientForMode(context.Background(), storageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	bs := newBucketService(log, storageCfg, bucketConfig{
		name:      name,
		cdnDomain: envutil.String("CONTENT_CDN_DOMAIN", ""),
	})
	bs.storageClient = stClient
	bs.log.Info("Object storage initialized",
		"mode", storageCfg.Mode,
		"emulator_host", storageCfg.EmulatorHost,
		"content_bucket", name,
	)
	return bs, nil
}

func newBucketService(log *logger.Logger, storageCfg ObjectStorageConfig, content bucketConfig) *bucketService {
	return &bucketService{
		log:        log.With("service", "BucketService"),
		storageCfg: storageCfg,
		content:    content,
	}
}

func newStorageClientForMode(ctx context.Context, storageCfg ObjectStorageConfig) (*storage.Client, error) {
	if storageCfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", storageCfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) getBucketConfig(category BucketCategory) (bucketConfig, error) {
	if category == BucketCategoryContent {
		return bs.content, nil
	}
	return bucketConfig{}, fmt.Errorf("unknown bucket category: %s", category)
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key, contentType string, file io.Reader) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(cfg.name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(cfg.name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, cfg.name, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case cfg.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", cfg.cdnDomain, key)
	case bs.storageCfg.IsEmulatorMode():
		base := bs.storageCfg.PublicBaseURL
		if base == "" {
			base = bs.storageCfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(cfg.name), url.PathEscape(key))
	case bs.storageCfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", bs.storageCfg.PublicBaseURL, cfg.name, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.name, key)
	}
}
