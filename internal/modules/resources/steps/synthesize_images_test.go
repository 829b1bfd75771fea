package steps

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
)

func storyWithSteps(n int) *content.Story {
	s := &content.Story{Title: "T"}
	for i := 0; i < n; i++ {
		s.Steps = append(s.Steps, content.Step{TextEN: fmt.Sprintf("s%d", i), ImagePrompt: fmt.Sprintf("p%d", i)})
	}
	return s
}

func TestSynthesizeImagesPartialFailure(t *testing.T) {
	in := storyWithSteps(8)
	images := &scriptedImages{fail: map[string]bool{"p2": true, "p6": true}}

	out, stats, err := SynthesizeImages(context.Background(), SynthesizeImagesDeps{Images: images}, in)
	if err != nil {
		t.Fatalf("SynthesizeImages: %v", err)
	}
	withURL := 0
	for i, s := range out.(*content.Story).Steps {
		if s.ImageURL != "" {
			withURL++
		} else if i != 2 && i != 6 {
			t.Fatalf("step %d: missing image", i)
		}
	}
	if withURL != 6 || stats.Succeeded != 6 || stats.Failed != 2 {
		t.Fatalf("SynthesizeImages: withURL=%d stats=%+v", withURL, stats)
	}
	for _, s := range in.Steps {
		if s.ImageURL != "" {
			t.Fatalf("SynthesizeImages mutated its input")
		}
	}
}

func TestSynthesizeImagesBatchesInOrder(t *testing.T) {
	in := storyWithSteps(12)
	images := &scriptedImages{delay: 20 * time.Millisecond}

	_, stats, err := SynthesizeImages(context.Background(), SynthesizeImagesDeps{Images: images, BatchSize: 5}, in)
	if err != nil {
		t.Fatalf("SynthesizeImages: %v", err)
	}
	if stats.Batches != 3 {
		t.Fatalf("batches: want=3 got=%d", stats.Batches)
	}
	if images.maxSeen > 5 {
		t.Fatalf("concurrency: want<=5 got=%d", images.maxSeen)
	}
	// every prompt of batch i is dispatched before any prompt of batch i+1
	batchOf := func(p string) int {
		var n int
		fmt.Sscanf(p, "p%d", &n)
		return n / 5
	}
	last := 0
	for _, p := range images.order {
		b := batchOf(p)
		if b < last {
			t.Fatalf("prompt %s dispatched after batch %d started", p, last)
		}
		last = b
	}
}

func TestSynthesizeImagesWorksheetChoices(t *testing.T) {
	idx := 0
	ws := &content.Worksheet{Title: "W", Questions: []content.Question{
		{TextEN: "q0", Choices: []content.Choice{{Label: "a", ImagePrompt: "a"}, {Label: "b", ImagePrompt: "b"}, {Label: "c"}}, CorrectAnswerIndex: &idx},
		{TextEN: "q1", ImagePrompt: "q1"},
	}}
	out, stats, err := SynthesizeImages(context.Background(), SynthesizeImagesDeps{Images: &scriptedImages{}}, ws)
	if err != nil {
		t.Fatalf("SynthesizeImages: %v", err)
	}
	got := out.(*content.Worksheet)
	if stats.Requested != 3 {
		t.Fatalf("requested: want=3 got=%d", stats.Requested)
	}
	if got.Questions[0].Choices[2].ImageURL != "" {
		t.Fatalf("choice without a prompt must not acquire an image")
	}
	if got.Questions[0].Choices[1].ImageURL == "" || got.Questions[1].ImageURL == "" {
		t.Fatalf("expected images on prompted nodes: %+v", got.Questions)
	}
}

func TestSynthesizeImagesStopsBetweenBatchesOnCancel(t *testing.T) {
	in := storyWithSteps(10)
	ctx, cancel := context.WithCancel(context.Background())
	images := &scriptedImages{delay: 10 * time.Millisecond}
	go func() {
		for images.calls.Load() < 5 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()
	_, _, err := SynthesizeImages(ctx, SynthesizeImagesDeps{Images: images, BatchSize: 5}, in)
	if err != context.Canceled {
		t.Fatalf("SynthesizeImages: want context.Canceled got=%v", err)
	}
	if images.calls.Load() > 5 {
		t.Fatalf("second batch dispatched after cancel: calls=%d", images.calls.Load())
	}
}
