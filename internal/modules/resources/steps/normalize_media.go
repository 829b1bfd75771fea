package steps

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const normalizeConcurrency = 4

type NormalizeMediaDeps struct {
	Log   *logger.Logger
	Store ImagePersister
}

type NormalizeStats struct {
	Inline   int
	Promoted int
	Kept     int
}

// NormalizeMedia promotes inline data: image references to stored URLs before save.
// A failed upload keeps the inline value; the save is never blocked.
func NormalizeMedia(ctx context.Context, deps NormalizeMediaDeps, env content.Envelope) (content.Envelope, NormalizeStats) {
	stats := NormalizeStats{}
	if env.Content == nil {
		return env, stats
	}
	var inline []content.Slot
	for _, s := range content.ImageSlots(env.Content) {
		if content.IsDataURL(s.URL) {
			inline = append(inline, s)
		}
	}
	stats.Inline = len(inline)
	if len(inline) == 0 || deps.Store == nil {
		stats.Kept = len(inline)
		return env, stats
	}

	urls := make([]string, len(inline))
	var g errgroup.Group
	g.SetLimit(normalizeConcurrency)
	for i, s := range inline {
		g.Go(func() error {
			mime, b64, ok := content.ParseDataURL(s.URL)
			if !ok {
				return nil
			}
			if url, ok := deps.Store.Persist(ctx, b64, mime); ok {
				urls[i] = url
			}
			return nil
		})
	}
	_ = g.Wait()

	out := env
	for i, url := range urls {
		if url == "" {
			stats.Kept++
			continue
		}
		next, err := content.WithImage(out.Content, inline[i].Position, url)
		if err != nil {
			stats.Kept++
			continue
		}
		out.Content = next
		stats.Promoted++
	}

	observability.Current().AddNormalized("promoted", stats.Promoted)
	observability.Current().AddNormalized("kept_inline", stats.Kept)
	if deps.Log != nil && stats.Kept > 0 {
		deps.Log.Warn("inline images kept at save", "kept", stats.Kept, "promoted", stats.Promoted)
	}
	return out, stats
}
