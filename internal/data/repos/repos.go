package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/aet-studio-backend/internal/data/repos/resource"
	"github.com/yungbote/aet-studio-backend/internal/data/repos/student"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type StudentRepo = student.StudentRepo
type ResourceRepo = resource.ResourceRepo

func NewStudentRepo(db *gorm.DB, log *logger.Logger) StudentRepo {
	return student.NewStudentRepo(db, log)
}

func NewResourceRepo(db *gorm.DB, log *logger.Logger) ResourceRepo {
	return resource.NewResourceRepo(db, log)
}
