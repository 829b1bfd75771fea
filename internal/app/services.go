package app

import (
	"time"

	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/editor"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Students   services.StudentService
	Images     services.ImageStore
	Editor     *editor.Editor
	Resources  resources.Usecases
	Curriculum *curriculum.Framework
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	fw, err := curriculum.Load()
	if err != nil {
		return Services{}, err
	}

	auth := services.NewAuthService(log, cfg.JWTSecretKey)
	students := services.NewStudentService(db, log, repos.Student, repos.Resource)
	images := services.NewImageStore(log, clients.Bucket, clients.AI.Image, services.ImageStoreConfig{
		UploadTimeout: cfg.Bucket.UploadTimeout,
		ImageTimeout:  cfg.AI.ImageTimeout,
	})

	var guard editor.Guard = editor.NewMemoryGuard()
	if clients.Redis != nil {
		guard = editor.NewRedisGuard(clients.Redis, "", 0)
		log.Info("Regeneration guard backed by redis")
	}
	ed := editor.New(log, images, guard)

	uc := resources.New(resources.UsecasesDeps{
		Log:          log.With("module", "resources"),
		Students:     students,
		Resources:    repos.Resource,
		Framework:    fw,
		Text:         clients.AI.Text,
		Images:       images,
		Editor:       ed,
		TextTimeout:  cfg.AI.TextTimeout,
		BatchSize:    cfg.ImageBatchSize,
		ImageLimiter: imageLimiter(cfg.ImageRatePerMinute, cfg.ImageBatchSize),
	})

	return Services{
		Auth:       auth,
		Students:   students,
		Images:     images,
		Editor:     ed,
		Resources:  uc,
		Curriculum: fw,
	}, nil
}

// imageLimiter paces image calls to perMinute with bursts of one batch. Zero means unlimited.
func imageLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), max(burst, 1))
}
