package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/aet-studio-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aet-studio-backend/internal/http/middleware"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TraceService   string
	AuthMiddleware *httpMW.AuthMiddleware

	GenerationHandler *httpH.GenerationHandler
	StudentHandler    *httpH.StudentHandler
	ResourceHandler   *httpH.ResourceHandler
	CurriculumHandler *httpH.CurriculumHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(httpMW.Trace(cfg.TraceService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Curriculum (public, static)
		if cfg.CurriculumHandler != nil {
			api.GET("/curriculum", cfg.CurriculumHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Generation + editing
		if cfg.GenerationHandler != nil {
			protected.POST("/ai/generate", cfg.GenerationHandler.Generate)
			protected.POST("/ai/regenerate-image", cfg.GenerationHandler.RegenerateImage)
			protected.POST("/ai/edit", cfg.GenerationHandler.Edit)
		}

		// Students
		if cfg.StudentHandler != nil {
			protected.GET("/students", cfg.StudentHandler.List)
			protected.POST("/students", cfg.StudentHandler.Create)
			protected.GET("/students/:id", cfg.StudentHandler.Get)
			protected.PUT("/students/:id", cfg.StudentHandler.Update)
			protected.DELETE("/students/:id", cfg.StudentHandler.Delete)
		}

		// Resources
		if cfg.ResourceHandler != nil {
			protected.GET("/students/:id/resources", cfg.ResourceHandler.ListForStudent)
			protected.POST("/resources", cfg.ResourceHandler.Save)
			protected.GET("/resources/:id", cfg.ResourceHandler.Get)
			protected.DELETE("/resources/:id", cfg.ResourceHandler.Delete)
		}
	}

	return r
}
