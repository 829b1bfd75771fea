package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aet-studio-backend/internal/data/repos"
	types "github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

var ErrInvalidStudent = errors.New("invalid student")

// StudentInput is the writable part of a student profile.
type StudentInput struct {
	Name               string   `json:"name"`
	Age                *int     `json:"age,omitempty"`
	AETLevel           string   `json:"aetLevel"`
	CommunicationLevel string   `json:"communicationLevel"`
	SensoryPreference  string   `json:"sensoryPreference"`
	LearningGoals      []string `json:"learningGoals"`
	PrimaryInterest    string   `json:"primaryInterest"`
	PreferredLanguage  string   `json:"preferredLanguage"`
}

type StudentService interface {
	Create(ctx context.Context, teacherID string, in StudentInput) (*types.Student, error)
	Get(ctx context.Context, teacherID string, id uint) (*types.Student, error)
	List(ctx context.Context, teacherID string) ([]*types.Student, error)
	Update(ctx context.Context, teacherID string, id uint, in StudentInput) (*types.Student, error)
	Delete(ctx context.Context, teacherID string, id uint) error
}

type studentService struct {
	db        *gorm.DB
	log       *logger.Logger
	students  repos.StudentRepo
	resources repos.ResourceRepo
}

func NewStudentService(db *gorm.DB, log *logger.Logger, students repos.StudentRepo, resources repos.ResourceRepo) StudentService {
	return &studentService{
		db:        db,
		log:       log.With("service", "StudentService"),
		students:  students,
		resources: resources,
	}
}

func (s *studentService) Create(ctx context.Context, teacherID string, in StudentInput) (*types.Student, error) {
	st, err := applyStudentInput(&types.Student{TeacherID: teacherID}, in)
	if err != nil {
		return nil, err
	}
	created, err := s.students.Create(ctx, nil, []*types.Student{st})
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	s.log.Info("student created", "teacher_id", teacherID, "student_id", created[0].ID)
	return created[0], nil
}

func (s *studentService) Get(ctx context.Context, teacherID string, id uint) (*types.Student, error) {
	st, err := s.students.GetByID(ctx, nil, teacherID, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if st == nil {
		return nil, types.ErrStudentNotFound
	}
	return st, nil
}

func (s *studentService) List(ctx context.Context, teacherID string) ([]*types.Student, error) {
	out, err := s.students.ListByTeacher(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

func (s *studentService) Update(ctx context.Context, teacherID string, id uint, in StudentInput) (*types.Student, error) {
	existing, err := s.Get(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}
	st, err := applyStudentInput(existing, in)
	if err != nil {
		return nil, err
	}
	if err := s.students.Update(ctx, nil, st); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return st, nil
}

// Delete removes the student and their saved resources together.
func (s *studentService) Delete(ctx context.Context, teacherID string, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.resources.DeleteByStudent(ctx, tx, teacherID, id)
		if err != nil {
			return fmt.Errorf("delete student resources: %w", err)
		}
		ok, err := s.students.Delete(ctx, tx, teacherID, id)
		if err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		if !ok {
			return types.ErrStudentNotFound
		}
		s.log.Info("student deleted", "teacher_id", teacherID, "student_id", id, "resources", n)
		return nil
	})
}

func applyStudentInput(st *types.Student, in StudentInput) (*types.Student, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidStudent)
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > 30) {
		return nil, fmt.Errorf("%w: age out of range", ErrInvalidStudent)
	}
	level := types.AETLevel(strings.TrimSpace(in.AETLevel))
	if level == "" {
		level = types.AETDeveloping
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown aetLevel %q", ErrInvalidStudent, in.AETLevel)
	}
	comm := types.CommunicationMode(strings.TrimSpace(in.CommunicationLevel))
	if comm == "" {
		comm = types.CommunicationVerbal
	}
	if !comm.Valid() {
		return nil, fmt.Errorf("%w: unknown communicationLevel %q", ErrInvalidStudent, in.CommunicationLevel)
	}
	lang := types.LanguageEnglish
	if strings.TrimSpace(in.PreferredLanguage) != "" {
		l, ok := types.ParseLanguage(in.PreferredLanguage)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preferredLanguage %q", ErrInvalidStudent, in.PreferredLanguage)
		}
		lang = l
	}
	goals := make(datatypes.JSONSlice[string], 0, len(in.LearningGoals))
	for _, g := range in.LearningGoals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}

	out := *st
	out.Name = name
	out.Age = in.Age
	out.AETLevel = level
	out.CommunicationLevel = comm
	out.SensoryPreference = strings.TrimSpace(in.SensoryPreference)
	out.LearningGoals = goals
	out.PrimaryInterest = strings.TrimSpace(in.PrimaryInterest)
	out.PreferredLanguage = lang
	return &out, nil
}
