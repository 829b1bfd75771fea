package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type gatedImages struct {
	mu      sync.Mutex
	prompts []string
	gate    chan struct{}
	started chan string
}

func (g *gatedImages) GenerateImageFromPrompt(ctx context.Context, prompt string) (string, bool) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	n := len(g.prompts)
	g.mu.Unlock()
	if g.started != nil {
		g.started <- prompt
	}
	if g.gate != nil {
		<-g.gate
	}
	return fmt.Sprintf("https://cdn.example.test/regen-%d.png", n), true
}

func pecsEnvelope() content.Envelope {
	cards := make([]content.Card, 6)
	for i := range cards {
		cards[i] = content.Card{
			LabelEN:  fmt.Sprintf("Card %d", i),
			LabelAR:  fmt.Sprintf("بطاقة %d", i),
			ImageURL: fmt.Sprintf("https://cdn.example.test/card-%d.png", i),
		}
	}
	return content.Envelope{
		Title: "Snack time", Type: domain.ResourcePECS, Language: domain.LanguageBilingual, StudentID: 1,
		Content: &content.Pecs{Title: "Snack time", Cards: cards},
	}
}

func newEditor(t *testing.T, images *gatedImages) *Editor {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return New(log, images, NewMemoryGuard())
}

func TestRegenerateTouchesOnlyTargetCard(t *testing.T) {
	env := pecsEnvelope()
	before := env.Clone()
	images := &gatedImages{}
	ed := newEditor(t, images)

	out, url, err := ed.Regenerate(context.Background(), "draft-1", env, content.At(3))
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if url == "" {
		t.Fatalf("Regenerate: expected url")
	}
	got := out.Content.(*content.Pecs).Cards
	orig := before.Content.(*content.Pecs).Cards
	for i := range got {
		if i == 3 {
			if got[i].ImageURL != url || got[i].LabelEN != orig[i].LabelEN {
				t.Fatalf("card 3: got=%+v", got[i])
			}
			continue
		}
		if got[i] != orig[i] {
			t.Fatalf("card %d changed: want=%+v got=%+v", i, orig[i], got[i])
		}
	}
	if env.Content.(*content.Pecs).Cards[3].ImageURL != orig[3].ImageURL {
		t.Fatalf("Regenerate mutated the input envelope")
	}
	if len(images.prompts) != 1 || !strings.Contains(images.prompts[0], `single isolated object of "Card 3"`) {
		t.Fatalf("prompt: %v", images.prompts)
	}
}

func TestRegenerateUsesArabicTextInArabicMode(t *testing.T) {
	env := pecsEnvelope()
	env.Language = domain.LanguageArabic
	images := &gatedImages{}
	if _, _, err := newEditor(t, images).Regenerate(context.Background(), "d", env, content.At(0)); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if !strings.Contains(images.prompts[0], "بطاقة 0") {
		t.Fatalf("prompt should use Arabic label: %q", images.prompts[0])
	}
}

func TestRegenerateRejectsSecondRequestForSamePosition(t *testing.T) {
	images := &gatedImages{gate: make(chan struct{}), started: make(chan string, 4)}
	ed := newEditor(t, images)
	env := pecsEnvelope()

	errs := make(chan error, 1)
	go func() {
		_, _, err := ed.Regenerate(context.Background(), "draft-1", env, content.At(2))
		errs <- err
	}()
	<-images.started

	if _, _, err := ed.Regenerate(context.Background(), "draft-1", env, content.At(2)); !errors.Is(err, ErrRegenerationInFlight) {
		t.Fatalf("same position: want ErrRegenerationInFlight got=%v", err)
	}

	// a different position proceeds while 2 is busy
	other := make(chan error, 1)
	go func() {
		_, _, err := ed.Regenerate(context.Background(), "draft-1", env, content.At(4))
		other <- err
	}()
	select {
	case <-images.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("different position was blocked")
	}

	close(images.gate)
	if err := <-errs; err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
	if err := <-other; err != nil {
		t.Fatalf("other regenerate: %v", err)
	}

	// released after completion
	if _, _, err := ed.Regenerate(context.Background(), "draft-1", env, content.At(2)); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestRegenerateInvalidPosition(t *testing.T) {
	ed := newEditor(t, &gatedImages{})
	if _, _, err := ed.Regenerate(context.Background(), "d", pecsEnvelope(), content.At(6)); !errors.Is(err, content.ErrInvalidPosition) {
		t.Fatalf("want ErrInvalidPosition got=%v", err)
	}
	if _, _, err := ed.Regenerate(context.Background(), "d", pecsEnvelope(), content.AtChoice(0, 1)); !errors.Is(err, content.ErrInvalidPosition) {
		t.Fatalf("want ErrInvalidPosition for choice on pecs got=%v", err)
	}
}

func TestMemoryGuardReleaseIsIdempotent(t *testing.T) {
	g := NewMemoryGuard()
	release, ok, _ := g.Acquire(context.Background(), "k")
	if !ok {
		t.Fatalf("Acquire: expected ok")
	}
	release()
	release()
	if _, ok, _ := g.Acquire(context.Background(), "k"); !ok {
		t.Fatalf("Acquire after release: expected ok")
	}
	if _, ok, _ := g.Acquire(context.Background(), "k"); ok {
		t.Fatalf("Acquire while held: expected busy")
	}
}
