package server

import (
	"github.com/gin-gonic/gin"

	"github.com/decisionlab/simulator-backend/internal/handlers"
	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/middleware"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	SessionHandler *handlers.SessionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.AttachRequestContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", handlers.HealthCheck)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", cfg.SessionHandler.Create)
		sessions.POST("/normalize", cfg.SessionHandler.NormalizeAll)
		sessions.POST("/:id/normalize", cfg.SessionHandler.Normalize)
		sessions.GET("", cfg.SessionHandler.List)
		sessions.GET("/latest", cfg.SessionHandler.Latest)
		sessions.GET("/latest/normalized", cfg.SessionHandler.LatestNormalized)
		sessions.GET("/:id", cfg.SessionHandler.Get)
		sessions.GET("/:id/normalized", cfg.SessionHandler.GetNormalized)
	}

	return router
}
