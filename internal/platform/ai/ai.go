package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks a capability that was never configured. It is not transient.
	ErrUnavailable = errors.New("ai capability unavailable")
	// ErrNoImage is returned when the image model answered without an image part.
	ErrNoImage = errors.New("image model returned no image")
)

// Image is a single synthesized raster image.
type Image struct {
	MimeType string
	Data     []byte
}

// TextModel completes a prompt with output constrained to JSON.
type TextModel interface {
	Available() bool
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ImageModel synthesizes one image from a text prompt.
type ImageModel interface {
	Available() bool
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// Unconfigured stands in for a provider whose credentials are absent.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) Available() bool { return false }

func (u Unconfigured) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return "", u.err()
}

func (u Unconfigured) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	return nil, u.err()
}

func (u Unconfigured) err() error {
	if u.Reason == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Provider bundles the two capabilities behind one configured backend.
type Provider struct {
	Name  string
	Text  TextModel
	Image ImageModel
}

func UnconfiguredProvider(reason string) Provider {
	u := Unconfigured{Reason: reason}
	return Provider{Name: "none", Text: u, Image: u}
}
