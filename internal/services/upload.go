package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/gcp"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

const MaxImageUploadBytes = 5 << 20

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type UploadService interface {
	UploadImage(ctx context.Context, r io.Reader) (string, error)
}

type uploadService struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

// NewUploadService accepts a nil bucket; uploads then fail with 503.
func NewUploadService(log *logger.Logger, bucket gcp.BucketService) UploadService {
	return &uploadService{
		log:    log.With("service", "UploadService"),
		bucket: bucket,
	}
}

var errImageTooLarge = apierr.New(http.StatusRequestEntityTooLarge, "file_too_large",
	fmt.Errorf("image must be at most %d MiB", MaxImageUploadBytes>>20))

// sniffImage reads at most MaxImageUploadBytes and identifies the format from the image header.
func sniffImage(r io.Reader) ([]byte, string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxImageUploadBytes+1))
	if err != nil {
		return nil, "", apierr.BadRequest("invalid_file", "could not read upload")
	}
	if len(raw) > MaxImageUploadBytes {
		return nil, "", errImageTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", apierr.BadRequest("invalid_file_type", "file must be a png, jpeg, gif or webp image")
	}
	if _, ok := imageContentTypes[format]; !ok {
		return nil, "", apierr.BadRequest("invalid_file_type", "unsupported image format: "+format)
	}
	return raw, format, nil
}

func (us *uploadService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	if us.bucket == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "uploads_unavailable", errors.New("image storage not configured"))
	}
	raw, format, err := sniffImage(r)
	if err != nil {
		return "", err
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	key := "images/" + uuid.NewString() + "." + ext
	if err := us.bucket.UploadFile(dbctx.Context{Ctx: ctx}, gcp.BucketCategoryContent, key, imageContentTypes[format], bytes.NewReader(raw)); err != nil {
		return "", storageError(us.log, "upload_image", err)
	}
	us.log.Info("image uploaded", "key", key, "bytes", len(raw))
	return us.bucket.GetPublicURL(gcp.BucketCategoryContent, key), nil
}
