package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/yungbote/aet-studio-backend/internal/platform/gcp"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

func main() {
	var keep bool
	var timeout time.Duration
	flag.BoolVar(&keep, "keep", false, "leave the probe object in the bucket")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, keep, timeout); err != nil {
		log.Error("storage verification failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *logger.Logger, keep bool, timeout time.Duration) error {
	storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return fmt.Errorf("resolve storage config: %w", err)
	}
	if storageCfg.IsDisabled() {
		return fmt.Errorf("OBJECT_STORAGE_MODE is disabled; nothing to verify")
	}
	bucketCfg := gcp.BucketConfigFromEnv()
	log.Info("verifying object storage",
		"mode", storageCfg.Mode,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", bucketCfg.Name,
		"explicit_credentials", gcp.HasExplicitCredentials(),
	)

	bucket, err := gcp.NewBucketServiceWithConfig(log, storageCfg, bucketCfg)
	if err != nil {
		return fmt.Errorf("init bucket: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := bucket.CheckBucket(ctx); err != nil {
		return fmt.Errorf("check bucket %q: %w", bucket.BucketName(), err)
	}
	log.Info("bucket reachable", "bucket", bucket.BucketName())

	probe, err := renderProbe()
	if err != nil {
		return fmt.Errorf("render probe: %w", err)
	}
	key := "verify/" + uuid.NewString() + ".png"
	if err := bucket.UploadFile(ctx, key, "image/png", probe); err != nil {
		return fmt.Errorf("upload probe (%s): %w", gcp.ClassifyUploadError(err), err)
	}
	log.Info("probe uploaded", "key", key, "url", bucket.GetPublicURL(key))

	if keep {
		return nil
	}
	if err := bucket.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	log.Info("probe deleted; storage OK")
	return nil
}

// renderProbe draws a small PNG so the round trip uses the same content type
// as generated illustrations.
func renderProbe() (*bytes.Buffer, error) {
	dc := gg.NewContext(256, 64)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored("aet studio storage probe", 128, 32, 0.5, 0.5)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
