package resource

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resources []*types.Resource) ([]*types.Resource, error)
	GetByID(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (*types.Resource, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, teacherID string, studentID uint) ([]*types.Resource, error)
	Delete(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (bool, error)
	DeleteByStudent(ctx context.Context, tx *gorm.DB, teacherID string, studentID uint) (int64, error)
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (r *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*types.Resource) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(resources) == 0 {
		return []*types.Resource{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) GetByID(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Resource
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

func (r *resourceRepo) ListByStudent(ctx context.Context, tx *gorm.DB, teacherID string, studentID uint) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Resource
	if err := transaction.WithContext(ctx).
		Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceRepo) Delete(ctx context.Context, tx *gorm.DB, teacherID string, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Delete(&types.Resource{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *resourceRepo) DeleteByStudent(ctx context.Context, tx *gorm.DB, teacherID string, studentID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Delete(&types.Resource{})
	return res.RowsAffected, res.Error
}
