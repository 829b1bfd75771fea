package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/data/repos"
	"github.com/yungbote/aet-studio-backend/internal/data/repos/testutil"
	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/editor"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/prompts"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type fakeStudents map[uint]*domain.Student

func (f fakeStudents) Get(ctx context.Context, teacherID string, id uint) (*domain.Student, error) {
	s, ok := f[id]
	if !ok || s.TeacherID != teacherID {
		return nil, domain.ErrStudentNotFound
	}
	return s, nil
}

type pecsText struct {
	calls   atomic.Int64
	prompts []string
	mu      sync.Mutex
}

func (m *pecsText) Available() bool { return true }

func (m *pecsText) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	cards := make([]map[string]string, content.PecsCards)
	for i := range cards {
		cards[i] = map[string]string{
			"label_en":     fmt.Sprintf("Snack %d", i),
			"label_ar":     fmt.Sprintf("وجبة %d", i),
			"image_prompt": fmt.Sprintf("snack item %d", i),
		}
	}
	b, _ := json.Marshal(map[string]any{"title": "Snack Time", "cards": cards})
	return string(b), nil
}

type countingStore struct {
	generated atomic.Int64
	persisted atomic.Int64
	prompts   sync.Map
}

func (s *countingStore) GenerateImageFromPrompt(ctx context.Context, prompt string) (string, bool) {
	n := s.generated.Add(1)
	s.prompts.Store(prompt, true)
	return fmt.Sprintf("https://storage.example/generated/%d.png", n), true
}

func (s *countingStore) Persist(ctx context.Context, b64, mime string) (string, bool) {
	n := s.persisted.Add(1)
	return fmt.Sprintf("https://storage.example/persisted/%d.png", n), true
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestUsecases(t *testing.T, students fakeStudents, text ai.TextModel, store *countingStore) Usecases {
	t.Helper()
	log := testLogger(t)
	fw, err := curriculum.Load()
	if err != nil {
		t.Fatalf("curriculum: %v", err)
	}
	return New(UsecasesDeps{
		Log:       log,
		Students:  students,
		Framework: fw,
		Text:      text,
		Images:    store,
		Editor:    editor.New(log, store, editor.NewMemoryGuard()),
	})
}

func dinoStudent() *domain.Student {
	return &domain.Student{
		ID:                1,
		TeacherID:         "teacher-a",
		Name:              "Sam",
		AETLevel:          domain.AETDeveloping,
		PrimaryInterest:   "dinosaurs",
		PreferredLanguage: domain.LanguageEnglish,
	}
}

func TestGenerateBilingualPecs(t *testing.T) {
	text := &pecsText{}
	store := &countingStore{}
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, text, store)

	env, err := uc.Generate(context.Background(), "teacher-a", GenerateRequest{
		StudentID: 1,
		Type:      domain.ResourcePECS,
		Topic:     "Snack time",
		Language:  "bilingual",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if env.Type != domain.ResourcePECS || env.Language != domain.LanguageBilingual || env.StudentID != 1 {
		t.Fatalf("envelope: got=%+v", env)
	}
	pecs, ok := env.Content.(*content.Pecs)
	if !ok {
		t.Fatalf("content: want *content.Pecs got=%T", env.Content)
	}
	if len(pecs.Cards) != content.PecsCards {
		t.Fatalf("cards: want=%d got=%d", content.PecsCards, len(pecs.Cards))
	}
	for i, c := range pecs.Cards {
		if c.LabelEN == "" || c.LabelAR == "" {
			t.Fatalf("card %d: missing label got=%+v", i, c)
		}
		if c.ImageURL == "" {
			t.Fatalf("card %d: missing image_url", i)
		}
	}
	if got := store.generated.Load(); got != content.PecsCards {
		t.Fatalf("image calls: want=%d got=%d", content.PecsCards, got)
	}
	if !strings.Contains(text.prompts[0], "dinosaurs") {
		t.Fatalf("prompt should carry the student's interest")
	}
}

func TestGenerateUsesPreferredLanguageWhenOmitted(t *testing.T) {
	s := dinoStudent()
	s.PreferredLanguage = domain.LanguageBilingual
	uc := newTestUsecases(t, fakeStudents{1: s}, &pecsText{}, &countingStore{})

	env, err := uc.Generate(context.Background(), "teacher-a", GenerateRequest{StudentID: 1, Type: domain.ResourcePECS, Topic: "Snack time"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if env.Language != domain.LanguageBilingual {
		t.Fatalf("language: want=%q got=%q", domain.LanguageBilingual, env.Language)
	}
}

func TestGenerateMissingStudentMakesNoModelCalls(t *testing.T) {
	text := &pecsText{}
	store := &countingStore{}
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, text, store)

	for _, req := range []struct {
		teacher string
		id      uint
	}{{"teacher-a", 42}, {"teacher-b", 1}} {
		_, err := uc.Generate(context.Background(), req.teacher, GenerateRequest{StudentID: req.id, Type: domain.ResourcePECS, Topic: "x"})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("Generate(%s,%d): want ErrStudentNotFound got=%v", req.teacher, req.id, err)
		}
	}
	if text.calls.Load() != 0 || store.generated.Load() != 0 {
		t.Fatalf("model calls: want=0 got text=%d image=%d", text.calls.Load(), store.generated.Load())
	}
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, &pecsText{}, &countingStore{})
	cases := []GenerateRequest{
		{StudentID: 1, Type: "poster", Topic: "x"},
		{StudentID: 0, Type: domain.ResourcePECS, Topic: "x"},
		{StudentID: 1, Type: domain.ResourcePECS, Topic: "x", Language: "fr"},
	}
	for _, req := range cases {
		if _, err := uc.Generate(context.Background(), "teacher-a", req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("Generate(%+v): want ErrInvalidRequest got=%v", req, err)
		}
	}
}

func TestGenerateUnavailableText(t *testing.T) {
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, ai.Unconfigured{Reason: "no key"}, &countingStore{})
	_, err := uc.Generate(context.Background(), "teacher-a", GenerateRequest{StudentID: 1, Type: domain.ResourceStory, Topic: "x"})
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("Generate: want ai.ErrUnavailable got=%v", err)
	}
}

func TestGenerateCarriesCurriculumIntoPrompt(t *testing.T) {
	text := &pecsText{}
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, text, &countingStore{})
	_, err := uc.Generate(context.Background(), "teacher-a", GenerateRequest{
		StudentID:  1,
		Type:       domain.ResourcePECS,
		Topic:      "Snack time",
		AETContext: &AETContext{Area: "Custom Area", SubTopic: "Custom Sub", Intention: "Ask for more"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"Custom Area", "Custom Sub", "Ask for more"} {
		if !strings.Contains(text.prompts[0], want) {
			t.Fatalf("prompt: want %q in prompt", want)
		}
	}
}

func TestRegenerateAtLeavesOtherCards(t *testing.T) {
	store := &countingStore{}
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, &pecsText{}, store)
	env, err := uc.Generate(context.Background(), "teacher-a", GenerateRequest{StudentID: 1, Type: domain.ResourcePECS, Topic: "Snack time", Language: "en"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	before := env.Content.(*content.Pecs)

	out, url, err := uc.RegenerateAt(context.Background(), "teacher-a", "draft-1", env, content.At(3))
	if err != nil {
		t.Fatalf("RegenerateAt: %v", err)
	}
	after := out.Content.(*content.Pecs)
	if url == "" || after.Cards[3].ImageURL != url {
		t.Fatalf("card 3: want=%q got=%q", url, after.Cards[3].ImageURL)
	}
	for i := range after.Cards {
		if i == 3 {
			continue
		}
		if after.Cards[i].ImageURL != before.Cards[i].ImageURL {
			t.Fatalf("card %d changed: want=%q got=%q", i, before.Cards[i].ImageURL, after.Cards[i].ImageURL)
		}
	}
	if before.Cards[3].ImageURL == url {
		t.Fatalf("input envelope was modified")
	}
}

func TestRegenerateImageRequiresText(t *testing.T) {
	store := &countingStore{}
	uc := newTestUsecases(t, fakeStudents{}, &pecsText{}, store)
	if _, _, err := uc.RegenerateImage(context.Background(), "  ", prompts.VisualSymbol); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("RegenerateImage: want ErrInvalidRequest got=%v", err)
	}
	url, ok, err := uc.RegenerateImage(context.Background(), "a red apple", prompts.VisualPECS)
	if err != nil || !ok || url == "" {
		t.Fatalf("RegenerateImage: got url=%q ok=%v err=%v", url, ok, err)
	}
}

func TestEditRejectsUnknownField(t *testing.T) {
	uc := newTestUsecases(t, fakeStudents{}, &pecsText{}, &countingStore{})
	env := content.Envelope{Title: "T", Type: domain.ResourcePECS, Language: domain.LanguageEnglish, Content: &content.Pecs{Title: "T"}}
	if _, err := uc.Edit(env, content.Edit{Field: "colour", Value: "red"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("Edit: want ErrInvalidRequest got=%v", err)
	}
	out, err := uc.Edit(env, content.Edit{Field: content.FieldTitle, Value: "Lunch"})
	if err != nil || out.Title != "Lunch" {
		t.Fatalf("Edit title: got=%q err=%v", out.Title, err)
	}
}

func TestSavePromotesInlineImages(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	student := testutil.SeedStudent(t, ctx, tx, "teacher-save", "Rana")

	store := &countingStore{}
	uc := New(UsecasesDeps{
		Log:       log,
		Students:  fakeStudents{student.ID: student},
		Resources: repos.NewResourceRepo(tx, log),
		Images:    store,
	})

	env := content.Envelope{
		Title:     "Morning",
		Type:      domain.ResourceStory,
		Language:  domain.LanguageEnglish,
		StudentID: student.ID,
		Content: &content.Story{Title: "Morning", Steps: []content.Step{
			{TextEN: "Wake up", ImageURL: "data:image/png;base64,AAAA"},
			{TextEN: "Brush teeth", ImageURL: "https://cdn.example/teeth.png"},
		}},
	}
	saved, err := uc.Save(ctx, "teacher-save", env)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.persisted.Load() != 1 {
		t.Fatalf("persist calls: want=1 got=%d", store.persisted.Load())
	}
	got, err := uc.GetResource(ctx, "teacher-save", saved.ID)
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	back, err := EnvelopeOf(got)
	if err != nil {
		t.Fatalf("EnvelopeOf: %v", err)
	}
	steps := back.Content.(*content.Story).Steps
	if content.IsDataURL(steps[0].ImageURL) {
		t.Fatalf("step 0: inline image was not promoted")
	}
	if steps[1].ImageURL != "https://cdn.example/teeth.png" {
		t.Fatalf("step 1: want unchanged url got=%q", steps[1].ImageURL)
	}

	if _, err := uc.GetResource(ctx, "teacher-other", saved.ID); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("GetResource other teacher: want ErrResourceNotFound got=%v", err)
	}
	if err := uc.DeleteResource(ctx, "teacher-save", saved.ID); err != nil {
		t.Fatalf("DeleteResource: %v", err)
	}
	if err := uc.DeleteResource(ctx, "teacher-save", saved.ID); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("DeleteResource twice: want ErrResourceNotFound got=%v", err)
	}
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, &pecsText{}, &countingStore{})
	env := content.Envelope{Title: "T", Type: domain.ResourceStory, Language: domain.LanguageEnglish, StudentID: 1, Content: &content.Pecs{}}
	if _, err := uc.Save(context.Background(), "teacher-a", env); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("Save: want ErrInvalidRequest got=%v", err)
	}
}

func TestSaveEnforcesLanguageContract(t *testing.T) {
	store := &countingStore{}
	uc := newTestUsecases(t, fakeStudents{1: dinoStudent()}, &pecsText{}, store)
	env := content.Envelope{
		Title: "Morning", Type: domain.ResourceStory, Language: domain.LanguageBilingual, StudentID: 1,
		Content: &content.Story{Title: "Morning", Steps: []content.Step{
			{TextEN: "Wake up", TextAR: "استيقظ", ImageURL: "data:image/png;base64,AAAA"},
			{TextEN: "Brush teeth"},
		}},
	}
	_, err := uc.Save(context.Background(), "teacher-a", env)
	if !errors.Is(err, ErrInvalidRequest) || !strings.Contains(err.Error(), "steps[1].ar") {
		t.Fatalf("Save: want ErrInvalidRequest naming steps[1].ar got=%v", err)
	}
	if store.persisted.Load() != 0 {
		t.Fatalf("Save: rejected content must not upload images, persisted=%d", store.persisted.Load())
	}
}
