package app

import (
	"echobreak_backend/docs"
	"echobreak_backend/internal/config"
	"echobreak_backend/internal/middleware"
	"echobreak_backend/internal/model"
	"echobreak_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerMemberRoutes(router, c, repos, cfg)
	a.registerAdminRoutes(router, c, repos)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerMemberRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/lean", c.user.UpdateLean)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		challenges := authGroup.Group("/challenges")
		{
			challenges.GET("/today", c.challenge.GetToday)
			challenges.GET("/recommendations", c.challenge.GetRecommendations)
			challenges.POST("/:id/submit", c.challenge.Submit)
		}

		activity := authGroup.Group("/activity")
		{
			activity.POST("/reading", c.activity.RecordReading)
			activity.POST("/sessions", c.activity.StartSession)
		}

		echoScore := authGroup.Group("/echo-score")
		{
			echoScore.GET("", c.echoScore.Get)
			echoScore.POST("/calculate", c.echoScore.Calculate)
			echoScore.GET("/history", c.echoScore.History)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(a.Config),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.POST("/challenges", c.challenge.Create)
		admin.PUT("/challenges/:id", c.challenge.Update)
		admin.DELETE("/challenges/:id", c.challenge.Delete)

		admin.POST("/echo-score/recalculate", c.echoScore.RecalculateAll)
	}
}
