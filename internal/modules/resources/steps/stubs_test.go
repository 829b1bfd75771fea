package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
)

var exactlyRE = regexp.MustCompile(`Exactly (\d+) (steps|cards|questions)`)

// conformingText answers every prompt with JSON shaped the way the format prompt asks.
type conformingText struct {
	calls atomic.Int64
	raw   string
}

func (m *conformingText) Available() bool { return true }

func (m *conformingText) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	if m.raw != "" {
		return m.raw, nil
	}
	match := exactlyRE.FindStringSubmatch(prompt)
	if match == nil {
		return "", fmt.Errorf("prompt does not state a cardinality")
	}
	n, _ := strconv.Atoi(match[1])
	nodes := make([]map[string]any, n)
	for i := range nodes {
		switch match[2] {
		case "steps":
			nodes[i] = map[string]any{"text_en": fmt.Sprintf("Step %d", i), "text_ar": fmt.Sprintf("خطوة %d", i), "image_prompt": fmt.Sprintf("step %d", i)}
		case "cards":
			nodes[i] = map[string]any{"label_en": fmt.Sprintf("Card %d", i), "label_ar": fmt.Sprintf("بطاقة %d", i), "image_prompt": fmt.Sprintf("card %d", i)}
		case "questions":
			nodes[i] = map[string]any{
				"text_en": fmt.Sprintf("Question %d", i), "text_ar": fmt.Sprintf("سؤال %d", i),
				"choices": []map[string]any{
					{"label": "a", "image_prompt": fmt.Sprintf("q%d a", i)},
					{"label": "b", "image_prompt": fmt.Sprintf("q%d b", i)},
					{"label": "c", "image_prompt": fmt.Sprintf("q%d c", i)},
				},
				"correct_answer_index": 0,
			}
		}
	}
	body := map[string]any{"title": "Stub Title", match[2]: nodes}
	if match[2] == "questions" {
		body["instructions"] = "Tick the correct option."
	}
	b, _ := json.Marshal(body)
	return "```json\n" + string(b) + "\n```", nil
}

type failingText struct{ err error }

func (m failingText) Available() bool { return true }
func (m failingText) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return "", m.err
}

var _ ai.TextModel = (*conformingText)(nil)

// scriptedImages returns a URL per prompt, failing the prompts listed in fail.
type scriptedImages struct {
	mu       sync.Mutex
	fail     map[string]bool
	delay    time.Duration
	inflight int
	maxSeen  int
	order    []string
	calls    atomic.Int64
}

func (s *scriptedImages) GenerateImageFromPrompt(ctx context.Context, prompt string) (string, bool) {
	s.calls.Add(1)
	s.mu.Lock()
	s.inflight++
	if s.inflight > s.maxSeen {
		s.maxSeen = s.inflight
	}
	s.order = append(s.order, prompt)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", false
		}
	}
	if s.fail[prompt] {
		return "", false
	}
	return "https://cdn.example.test/" + strings.ReplaceAll(prompt, " ", "_") + ".png", true
}

type stubPersister struct {
	mu     sync.Mutex
	ok     bool
	called []string
}

func (p *stubPersister) Persist(ctx context.Context, b64 string, mime string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.called = append(p.called, b64)
	if !p.ok {
		return "", false
	}
	return fmt.Sprintf("https://cdn.example.test/generated/%d.png", len(p.called)), true
}
