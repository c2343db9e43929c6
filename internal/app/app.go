package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echobreak_backend/internal/config"
	"echobreak_backend/internal/controller"
	"echobreak_backend/internal/repository"
	"echobreak_backend/internal/service"
	"echobreak_backend/pkg/database"
	"echobreak_backend/pkg/logger"
	"echobreak_backend/pkg/monitoring"
	"echobreak_backend/pkg/security"
	"echobreak_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	challenge  *repository.ChallengeRepository
	submission *repository.SubmissionRepository
	reading    *repository.ReadingRepository
	session    *repository.SessionRepository
	selection  *repository.SelectionRepository
	echoScore  *repository.EchoScoreRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	user      *service.UserService
	activity  *service.ActivityService
	profile   *service.ProfileService
	challenge *service.ChallengeService
	echoScore *service.EchoScoreService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	activity  *controller.ActivityController
	challenge *controller.ChallengeController
	echoScore *controller.EchoScoreController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded configuration and notifies subscribers.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		challenge:  repository.NewChallengeRepository(db),
		submission: repository.NewSubmissionRepository(db),
		reading:    repository.NewReadingRepository(db),
		session:    repository.NewSessionRepository(db),
		selection:  repository.NewSelectionRepository(db),
		echoScore:  repository.NewEchoScoreRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.activity = service.NewActivityService(repos.reading, repos.session)
	s.profile = service.NewProfileService(repos.user, repos.submission, repos.challenge)

	s.challenge = service.NewChallengeService(
		repos.user,
		repos.submission,
		repos.challenge,
		repos.challenge,
		repos.selection,
		s.profile,
		service.NewChallengeScorer(),
		rdb,
	)

	s.echoScore = service.NewEchoScoreService(
		repos.user,
		repos.reading,
		repos.submission,
		repos.session,
		repos.echoScore,
		rdb,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user),
		activity:  controller.NewActivityController(s.activity),
		challenge: controller.NewChallengeController(s.challenge),
		echoScore: controller.NewEchoScoreController(s.echoScore),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks refreshes every user's echo score once a day so
// stale accounts keep a current number without ever calling the API.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			report, err := s.echoScore.RecalculateAll(context.Background())
			if err != nil {
				logger.Log.Error("nightly echo score recompute failed", zap.Error(err))
				continue
			}
			logger.Log.Info("nightly echo score recompute finished",
				zap.Int("succeeded", len(report.Succeeded)),
				zap.Int("failed", len(report.Failed)))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("echobreak-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
