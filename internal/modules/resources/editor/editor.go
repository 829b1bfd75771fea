// Package editor regenerates single images inside an open resource.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/prompts"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/steps"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

var (
	ErrRegenerationInFlight = errors.New("image regeneration already in flight for this position")
	ErrNoText               = errors.New("no text at position to regenerate from")
)

type Editor struct {
	log    *logger.Logger
	images steps.ImageGenerator
	guard  Guard
}

func New(log *logger.Logger, images steps.ImageGenerator, guard Guard) *Editor {
	if guard == nil {
		guard = NewMemoryGuard()
	}
	return &Editor{log: log.With("service", "ResourceEditor"), images: images, guard: guard}
}

// Regenerate replaces the image at pos using the text currently stored there. The returned
// envelope shares nothing mutable with env. An empty url with a nil error means synthesis
// produced no image and env is returned unchanged.
//
// draftKey identifies the open resource; two calls for the same draftKey and pos never run
// at once, different positions do.
func (e *Editor) Regenerate(ctx context.Context, draftKey string, env content.Envelope, pos content.Position) (content.Envelope, string, error) {
	if env.Content == nil {
		return env, "", fmt.Errorf("%w: envelope has no content", content.ErrInvalidPosition)
	}
	text, err := content.TextAt(env.Content, pos, env.Language)
	if err != nil {
		return env, "", err
	}
	if strings.TrimSpace(text) == "" {
		return env, "", ErrNoText
	}

	key := strings.TrimSpace(draftKey) + "/" + pos.String()
	release, ok, err := e.guard.Acquire(ctx, key)
	if err != nil {
		return env, "", err
	}
	if !ok {
		observability.Current().IncRegenerationRejected()
		return env, "", ErrRegenerationInFlight
	}
	defer release()

	prompt := prompts.BuildRegenerationPrompt(text, prompts.VisualKindFor(env.Type))
	url, ok := e.images.GenerateImageFromPrompt(ctx, prompt)
	if !ok || url == "" {
		e.log.Warn("image regeneration produced no image", "type", env.Type, "position", pos.String())
		return env, "", nil
	}
	next, err := content.WithImage(env.Content, pos, url)
	if err != nil {
		return env, "", err
	}
	out := env
	out.Content = next
	return out, url, nil
}
