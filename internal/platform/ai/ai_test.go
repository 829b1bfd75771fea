package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUnconfiguredFailsWithUnavailable(t *testing.T) {
	p := UnconfiguredProvider("missing GEMINI_API_KEY")
	if p.Text.Available() || p.Image.Available() {
		t.Fatalf("unconfigured provider must not report availability")
	}
	_, err := p.Text.GenerateJSON(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("GenerateJSON: want ErrUnavailable got=%v", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("GenerateJSON: reason missing from %q", err.Error())
	}
	img, err := p.Image.GenerateImage(context.Background(), "x")
	if img != nil || !errors.Is(err, ErrUnavailable) {
		t.Fatalf("GenerateImage: want nil, ErrUnavailable got=%v, %v", img, err)
	}
}
