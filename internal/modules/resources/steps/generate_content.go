package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/prompts"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/platform/promptstyle"
)

type GenerateContentDeps struct {
	Log     *logger.Logger
	Text    ai.TextModel
	Timeout time.Duration
}

type GenerateContentInput struct {
	Student    *domain.Student
	Type       domain.ResourceType
	Topic      string
	Language   domain.Language
	Curriculum *curriculum.Context
}

type GenerateContentOutput struct {
	Content  content.Content
	Warnings []string
}

// GenerateContent runs the single text call for a resource and parses it into a typed tree.
// It fails with ai.ErrUnavailable before any I/O when no text model is configured.
func GenerateContent(ctx context.Context, deps GenerateContentDeps, in GenerateContentInput) (GenerateContentOutput, error) {
	out := GenerateContentOutput{}
	if deps.Text == nil || !deps.Text.Available() {
		return out, fmt.Errorf("generate content: %w", ai.ErrUnavailable)
	}
	if !in.Type.Valid() {
		return out, &GenerationError{Stage: StageParse, Err: fmt.Errorf("%w: %q", content.ErrUnknownType, in.Type)}
	}

	system := promptstyle.ApplySystem(prompts.BuildSystemPrompt(in.Student, in.Language, in.Curriculum), "json")
	format := prompts.BuildFormatPrompt(in.Type, in.Topic, in.Student)

	callCtx := ctx
	if deps.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, deps.Timeout)
		defer cancel()
	}
	ctx, span := observability.StartSpan(callCtx, "resources.generate_content",
		attribute.String("resource.type", string(in.Type)),
		attribute.String("resource.language", string(in.Language)),
	)
	raw, err := deps.Text.GenerateJSON(ctx, prompts.Combine(system, format))
	if err != nil {
		observability.EndSpan(span, err)
		return out, &GenerationError{Stage: StageText, Err: err}
	}

	c, err := content.Parse(in.Type, []byte(raw))
	if err != nil {
		observability.EndSpan(span, err)
		if deps.Log != nil {
			deps.Log.Warn("model returned unparsable content", "type", in.Type, "raw_len", len(raw), "error", err)
		}
		return out, &GenerationError{Stage: StageParse, Raw: truncate(raw, 2000), Err: err}
	}
	if err := content.Validate(c, in.Language); err != nil {
		observability.EndSpan(span, err)
		return out, &GenerationError{Stage: StageValidate, Raw: truncate(raw, 2000), Err: err}
	}
	observability.EndSpan(span, nil)

	out.Content = c
	out.Warnings = content.Warnings(c)
	if len(out.Warnings) > 0 && deps.Log != nil {
		deps.Log.Warn("generated content drifted from requested shape", "type", in.Type, "warnings", out.Warnings)
	}
	return out, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
