// Package resources runs resource generation, editing and saving for a teacher.
package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/datatypes"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/data/repos"
	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/editor"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/prompts"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/steps"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/services"
)

var (
	ErrStudentNotFound  = domain.ErrStudentNotFound
	ErrResourceNotFound = domain.ErrResourceNotFound
	ErrInvalidRequest   = errors.New("invalid request")
)

// StudentLookup resolves a student owned by the teacher or returns domain.ErrStudentNotFound.
type StudentLookup interface {
	Get(ctx context.Context, teacherID string, id uint) (*domain.Student, error)
}

type UsecasesDeps struct {
	Log *logger.Logger

	Students  StudentLookup
	Resources repos.ResourceRepo
	Framework *curriculum.Framework

	Text   ai.TextModel
	Images services.ImageStore
	Editor *editor.Editor

	TextTimeout  time.Duration
	BatchSize    int
	ImageLimiter *rate.Limiter
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type AETContext struct {
	Area      string `json:"area"`
	SubTopic  string `json:"subTopic"`
	Intention string `json:"intention"`
}

type GenerateRequest struct {
	StudentID  uint                `json:"studentId"`
	Type       domain.ResourceType `json:"type"`
	Topic      string              `json:"topic"`
	Language   string              `json:"language"`
	AETContext *AETContext         `json:"aetContext,omitempty"`
}

// Generate produces a fresh envelope for one student. The student is resolved before any
// model call; an unknown student never reaches the models.
func (u Usecases) Generate(ctx context.Context, teacherID string, req GenerateRequest) (content.Envelope, error) {
	start := time.Now()
	if !req.Type.Valid() {
		return content.Envelope{}, fmt.Errorf("%w: type must be story, worksheet or pecs", ErrInvalidRequest)
	}
	if req.StudentID == 0 {
		return content.Envelope{}, fmt.Errorf("%w: studentId is required", ErrInvalidRequest)
	}
	student, err := u.deps.Students.Get(ctx, teacherID, req.StudentID)
	if err != nil {
		return content.Envelope{}, err
	}

	lang := student.PreferredLanguage
	if strings.TrimSpace(req.Language) != "" {
		l, ok := domain.ParseLanguage(req.Language)
		if !ok {
			return content.Envelope{}, fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, req.Language)
		}
		lang = l
	}
	if !lang.Valid() {
		lang = domain.LanguageEnglish
	}

	log := u.log().With("teacher_id", teacherID, "student_id", student.ID, "type", req.Type, "language", lang)
	cc := u.resolveCurriculum(log, req)

	gen, err := steps.GenerateContent(ctx, steps.GenerateContentDeps{
		Log:     log,
		Text:    u.deps.Text,
		Timeout: u.deps.TextTimeout,
	}, steps.GenerateContentInput{
		Student:    student,
		Type:       req.Type,
		Topic:      req.Topic,
		Language:   lang,
		Curriculum: cc,
	})
	if err != nil {
		observability.Current().ObserveGeneration(string(req.Type), generationOutcome(err), 0)
		log.Warn("resource generation failed", "error", err)
		return content.Envelope{}, err
	}

	var images steps.ImageGenerator
	if u.deps.Images != nil {
		images = u.deps.Images
	}
	withImages, stats, err := steps.SynthesizeImages(ctx, steps.SynthesizeImagesDeps{
		Log:       log,
		Images:    images,
		BatchSize: u.deps.BatchSize,
		Limiter:   u.deps.ImageLimiter,
	}, gen.Content)
	if err != nil {
		observability.Current().ObserveGeneration(string(req.Type), "canceled", 0)
		return content.Envelope{}, err
	}

	env := steps.Assemble(withImages, req.Type, lang, student.ID, req.Topic)
	observability.Current().ObserveGeneration(string(req.Type), "ok", time.Since(start))
	log.Info("resource generated",
		"nodes", content.NodeCount(withImages),
		"images_ok", stats.Succeeded,
		"images_failed", stats.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return env, nil
}

func (u Usecases) resolveCurriculum(log *logger.Logger, req GenerateRequest) *curriculum.Context {
	if req.AETContext == nil {
		return nil
	}
	in := req.AETContext
	if u.deps.Framework == nil {
		return &curriculum.Context{Area: in.Area, SubTopic: in.SubTopic, Intention: in.Intention}
	}
	cc := u.deps.Framework.Resolve(in.Area, in.SubTopic, in.Intention)
	if !cc.Known {
		log.Warn("aet context not found in framework; passing through", "area", in.Area, "sub_topic", in.SubTopic)
	}
	if area, ok := u.deps.Framework.Area(in.Area); ok && !area.Supports(req.Type) {
		log.Warn("aet area does not list this format", "area", area.Key)
	}
	return &cc
}

func generationOutcome(err error) string {
	var gerr *steps.GenerationError
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &gerr):
		return "failed_" + gerr.Stage
	}
	return "failed"
}

// RegenerateImage builds a standalone image from free text. ok=false means no image was produced.
func (u Usecases) RegenerateImage(ctx context.Context, text string, kind prompts.VisualKind) (string, bool, error) {
	if strings.TrimSpace(text) == "" {
		return "", false, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	if u.deps.Images == nil {
		return "", false, nil
	}
	url, ok := u.deps.Images.GenerateImageFromPrompt(ctx, prompts.BuildRegenerationPrompt(text, kind))
	return url, ok, nil
}

// RegenerateAt regenerates one node's image inside an open envelope.
func (u Usecases) RegenerateAt(ctx context.Context, teacherID, draftID string, env content.Envelope, pos content.Position) (content.Envelope, string, error) {
	if u.deps.Editor == nil {
		return env, "", fmt.Errorf("regenerate: %w", ai.ErrUnavailable)
	}
	draftKey := teacherID + "/" + draftKeyFor(draftID, env)
	return u.deps.Editor.Regenerate(ctx, draftKey, env, pos)
}

// draftKeyFor falls back to the student and title when the client sends no draft id, so
// two tabs on the same unsaved resource still share position guards.
func draftKeyFor(draftID string, env content.Envelope) string {
	if d := strings.TrimSpace(draftID); d != "" {
		return d
	}
	return fmt.Sprintf("%d/%s/%s", env.StudentID, env.Type, env.Title)
}

// Edit applies one committed field edit. The input envelope is not modified.
func (u Usecases) Edit(env content.Envelope, e content.Edit) (content.Envelope, error) {
	out, err := content.Apply(env, e)
	if err != nil {
		return content.Envelope{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return out, nil
}

// Save checks the language contract, normalizes inline media and persists the
// envelope for the student.
func (u Usecases) Save(ctx context.Context, teacherID string, env content.Envelope) (*domain.Resource, error) {
	if !env.Type.Valid() || env.Content == nil {
		return nil, fmt.Errorf("%w: resource type and content are required", ErrInvalidRequest)
	}
	if env.Content.Kind() != env.Type {
		return nil, fmt.Errorf("%w: content does not match type %s", ErrInvalidRequest, env.Type)
	}
	if !env.Language.Valid() {
		return nil, fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, env.Language)
	}
	if err := content.Validate(env.Content, env.Language); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := u.deps.Students.Get(ctx, teacherID, env.StudentID); err != nil {
		return nil, err
	}

	var persister steps.ImagePersister
	if u.deps.Images != nil {
		persister = u.deps.Images
	}
	normalized, stats := steps.NormalizeMedia(ctx, steps.NormalizeMediaDeps{Log: u.log(), Store: persister}, env)

	raw, err := normalized.ContentJSON()
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	title := strings.TrimSpace(normalized.Title)
	if title == "" {
		title = steps.Assemble(normalized.Content, normalized.Type, normalized.Language, normalized.StudentID, "").Title
	}
	created, err := u.deps.Resources.Create(ctx, nil, []*domain.Resource{{
		TeacherID: teacherID,
		StudentID: normalized.StudentID,
		Title:     title,
		Type:      normalized.Type,
		Language:  normalized.Language,
		Content:   datatypes.JSON(raw),
	}})
	if err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}
	u.log().Info("resource saved",
		"teacher_id", teacherID,
		"resource_id", created[0].ID,
		"inline_images", stats.Inline,
		"promoted", stats.Promoted,
	)
	return created[0], nil
}

func (u Usecases) GetResource(ctx context.Context, teacherID string, id uint) (*domain.Resource, error) {
	r, err := u.deps.Resources.GetByID(ctx, nil, teacherID, id)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if r == nil {
		return nil, ErrResourceNotFound
	}
	return r, nil
}

func (u Usecases) ListResources(ctx context.Context, teacherID string, studentID uint) ([]*domain.Resource, error) {
	if _, err := u.deps.Students.Get(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	out, err := u.deps.Resources.ListByStudent(ctx, nil, teacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}

func (u Usecases) DeleteResource(ctx context.Context, teacherID string, id uint) error {
	ok, err := u.deps.Resources.Delete(ctx, nil, teacherID, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if !ok {
		return ErrResourceNotFound
	}
	return nil
}

// EnvelopeOf decodes a stored resource back into an editable envelope.
func EnvelopeOf(r *domain.Resource) (content.Envelope, error) {
	c, err := content.Parse(r.Type, r.Content)
	if err != nil {
		return content.Envelope{}, err
	}
	return content.Envelope{Title: r.Title, Type: r.Type, Content: c, Language: r.Language, StudentID: r.StudentID}, nil
}

func (u Usecases) log() *logger.Logger {
	return u.deps.Log
}
