package student

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error)
	GetByID(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (*types.Student, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*types.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *types.Student) error
	Delete(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (bool, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(students) == 0 {
		return []*types.Student{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// GetByID returns nil without error when the student does not exist or belongs to another teacher.
func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Student
	err := transaction.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *studentRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Student
	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) Update(ctx context.Context, tx *gorm.DB, s *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Student{}).
		Where("id = ? AND teacher_id = ?", s.ID, s.TeacherID).
		Updates(map[string]any{
			"name":                s.Name,
			"age":                 s.Age,
			"aet_level":           s.AETLevel,
			"communication_level": s.CommunicationLevel,
			"sensory_preference":  s.SensoryPreference,
			"learning_goals":      s.LearningGoals,
			"primary_interest":    s.PrimaryInterest,
			"preferred_language":  s.PreferredLanguage,
		}).Error
}

func (r *studentRepo) Delete(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Delete(&types.Student{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
