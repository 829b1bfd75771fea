package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/http"
	httpH "github.com/yungbote/aet-studio-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aet-studio-backend/internal/http/middleware"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Generation *httpH.GenerationHandler
	Student    *httpH.StudentHandler
	Resource   *httpH.ResourceHandler
	Curriculum *httpH.CurriculumHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Generation: httpH.NewGenerationHandler(log, services.Resources),
		Student:    httpH.NewStudentHandler(services.Students),
		Resource:   httpH.NewResourceHandler(services.Resources),
		Curriculum: httpH.NewCurriculumHandler(services.Curriculum),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	traceService := ""
	if cfg.Otel.Enabled {
		traceService = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins,
		TraceService:      traceService,
		AuthMiddleware:    middleware.Auth,
		GenerationHandler: handlers.Generation,
		StudentHandler:    handlers.Student,
		ResourceHandler:   handlers.Resource,
		CurriculumHandler: handlers.Curriculum,
		HealthHandler:     handlers.Health,
	})
}
