package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/dataurl"
	"github.com/yungbote/aet-studio-backend/internal/platform/gcp"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const (
	generatedImagePrefix  = "generated/"
	defaultUploadTimeout  = 30 * time.Second
	defaultImageTimeout   = 60 * time.Second
	imageOutcomePersisted = "persisted"
	imageOutcomeInline    = "inline"
	imageOutcomeFailed    = "failed"
	imageOutcomeNoImage   = "no_image"
)

// ImageStore owns the write path from synthesized images to the resource image bucket.
type ImageStore interface {
	// Persist uploads a base64 payload and returns its public URL. It never returns an
	// error; ok=false means the caller should keep the inline data URL.
	Persist(ctx context.Context, b64 string, mime string) (url string, ok bool)
	// GenerateImageFromPrompt synthesizes and persists one image. When storage fails it
	// returns a data: URL; ok=false only when synthesis produced nothing.
	GenerateImageFromPrompt(ctx context.Context, prompt string) (url string, ok bool)
}

type ImageStoreConfig struct {
	UploadTimeout time.Duration
	ImageTimeout  time.Duration
}

type imageStore struct {
	log    *logger.Logger
	bucket gcp.BucketService
	images ai.ImageModel
	cfg    ImageStoreConfig

	now   func() time.Time
	newID func() string
}

// NewImageStore accepts a nil bucket when object storage is not configured; every
// Persist then reports credentials absent.
func NewImageStore(log *logger.Logger, bucket gcp.BucketService, images ai.ImageModel, cfg ImageStoreConfig) ImageStore {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = defaultImageTimeout
	}
	if images == nil {
		images = ai.Unconfigured{Reason: "no image model"}
	}
	return &imageStore{
		log:    log.With("service", "ImageStore"),
		bucket: bucket,
		images: images,
		cfg:    cfg,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *imageStore) Persist(ctx context.Context, b64 string, mime string) (string, bool) {
	if s.bucket == nil {
		s.log.Warn("image persist skipped: storage credentials absent", "mime", mime)
		observability.Current().IncImage(imageOutcomeInline)
		return "", false
	}
	raw, err := dataurl.Decode(b64)
	if err != nil || len(raw) == 0 {
		s.log.Error("image persist failed: unexpected error", "kind", gcp.UploadFailureUnexpected, "error", fmt.Errorf("decode payload: %v", err))
		observability.Current().IncImage(imageOutcomeInline)
		return "", false
	}

	contentType, ext := s.sniff(raw, mime)
	key := s.objectKey(ext)

	uploadCtx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
	defer cancel()
	if err := s.bucket.UploadFile(uploadCtx, key, contentType, bytes.NewReader(raw)); err != nil {
		kind := gcp.ClassifyUploadError(err)
		switch kind {
		case gcp.UploadFailureRejected:
			s.log.Warn("image persist failed: upload rejected", "kind", kind, "bucket", s.bucket.BucketName(), "key", key, "error", err)
		default:
			s.log.Error("image persist failed: unexpected error", "kind", kind, "bucket", s.bucket.BucketName(), "key", key, "error", err)
		}
		observability.Current().IncImage(imageOutcomeInline)
		return "", false
	}
	observability.Current().IncImage(imageOutcomePersisted)
	return s.bucket.GetPublicURL(key), true
}

func (s *imageStore) GenerateImageFromPrompt(ctx context.Context, prompt string) (string, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", false
	}
	if !s.images.Available() {
		s.log.Warn("image synthesis skipped: image model unavailable")
		observability.Current().IncImage(imageOutcomeFailed)
		return "", false
	}
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.ImageTimeout)
	img, err := s.images.GenerateImage(genCtx, prompt)
	cancel()
	if err != nil || img == nil || len(img.Data) == 0 {
		if err == nil || errors.Is(err, ai.ErrNoImage) {
			s.log.Warn("image synthesis returned no image", "prompt_len", len(prompt))
			observability.Current().IncImage(imageOutcomeNoImage)
		} else {
			s.log.Warn("image synthesis failed", "error", err)
			observability.Current().IncImage(imageOutcomeFailed)
		}
		return "", false
	}

	mime := img.MimeType
	if mime == "" {
		mime = "image/png"
	}
	b64 := base64.StdEncoding.EncodeToString(img.Data)
	if url, ok := s.Persist(ctx, b64, mime); ok {
		return url, true
	}
	return dataurl.Format(mime, b64), true
}

// objectKey is time-ordered with a random suffix so concurrent uploads never collide.
func (s *imageStore) objectKey(ext string) string {
	id := strings.ReplaceAll(s.newID(), "-", "")
	if len(id) > 12 {
		id = id[:12]
	}
	return fmt.Sprintf("%s%d-%s.%s", generatedImagePrefix, s.now().UnixMilli(), id, ext)
}

// sniff prefers the decoded format over the declared mime type.
func (s *imageStore) sniff(raw []byte, declared string) (contentType string, ext string) {
	if _, format, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
		switch format {
		case "jpeg":
			return "image/jpeg", "jpg"
		case "png", "gif", "webp":
			return "image/" + format, format
		}
	}
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "image/jpeg", "image/jpg":
		return "image/jpeg", "jpg"
	case "image/webp":
		return "image/webp", "webp"
	case "image/gif":
		return "image/gif", "gif"
	}
	return "image/png", "png"
}
