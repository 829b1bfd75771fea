package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/aet-studio-backend/internal/data/repos"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type Repos struct {
	Student  repos.StudentRepo
	Resource repos.ResourceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Student:  repos.NewStudentRepo(db, log),
		Resource: repos.NewResourceRepo(db, log),
	}
}
