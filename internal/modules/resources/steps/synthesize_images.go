package steps

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const DefaultImageBatchSize = 5

type SynthesizeImagesDeps struct {
	Log       *logger.Logger
	Images    ImageGenerator
	BatchSize int
	// Limiter, when set, paces individual image calls on top of batching.
	Limiter *rate.Limiter
}

type SynthesisStats struct {
	Requested int
	Succeeded int
	Failed    int
	Batches   int
	Duration  time.Duration
}

// SynthesizeImages fills image_url on every node that carries an image_prompt. Batch i
// completes before batch i+1 starts. A failed item leaves its node without an image and
// never fails the call; only cancellation of ctx between batches does.
func SynthesizeImages(ctx context.Context, deps SynthesizeImagesDeps, c content.Content) (content.Content, SynthesisStats, error) {
	start := time.Now()
	slots := content.PromptSlots(c)
	stats := SynthesisStats{Requested: len(slots)}
	if len(slots) == 0 || deps.Images == nil {
		stats.Failed = len(slots)
		return c, stats, nil
	}
	batch := deps.BatchSize
	if batch <= 0 {
		batch = DefaultImageBatchSize
	}

	ctx, span := observability.StartSpan(ctx, "resources.synthesize_images",
		attribute.Int("images.requested", len(slots)),
		attribute.Int("images.batch_size", batch),
	)
	urls := make([]string, len(slots))
	var failed atomic.Int64

	for lo := 0; lo < len(slots); lo += batch {
		if err := ctx.Err(); err != nil {
			observability.EndSpan(span, err)
			return c, stats, err
		}
		hi := min(lo+batch, len(slots))
		stats.Batches++

		var g errgroup.Group
		g.SetLimit(batch)
		for i := lo; i < hi; i++ {
			g.Go(func() error {
				if deps.Limiter != nil {
					if err := deps.Limiter.Wait(ctx); err != nil {
						failed.Add(1)
						return nil
					}
				}
				url, ok := deps.Images.GenerateImageFromPrompt(ctx, slots[i].Prompt)
				if !ok || url == "" {
					failed.Add(1)
					if deps.Log != nil {
						deps.Log.Warn("image synthesis failed for node", "position", slots[i].Position.String())
					}
					return nil
				}
				urls[i] = url
				return nil
			})
		}
		_ = g.Wait()
	}

	out := c
	for i, url := range urls {
		if url == "" {
			continue
		}
		next, err := content.WithImage(out, slots[i].Position, url)
		if err != nil {
			// positions come from the same tree
			failed.Add(1)
			continue
		}
		out = next
	}

	stats.Failed = int(failed.Load())
	stats.Succeeded = stats.Requested - stats.Failed
	stats.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("images.failed", stats.Failed))
	observability.EndSpan(span, nil)
	if deps.Log != nil {
		deps.Log.Info("image synthesis complete",
			"requested", stats.Requested,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"batches", stats.Batches,
			"duration_ms", stats.Duration.Milliseconds(),
		)
	}
	return out, stats, nil
}
