package steps

import (
	"context"
	"fmt"
)

// ImageGenerator synthesizes and persists one image; see services.ImageStore.
type ImageGenerator interface {
	GenerateImageFromPrompt(ctx context.Context, prompt string) (string, bool)
}

// ImagePersister uploads an inline payload; see services.ImageStore.
type ImagePersister interface {
	Persist(ctx context.Context, b64 string, mime string) (string, bool)
}

const (
	StageText     = "text"
	StageParse    = "parse"
	StageValidate = "validate"
)

// GenerationError is a fatal failure of one generation call. Raw carries the model
// output when there was one, for diagnostics.
type GenerationError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("resource generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
