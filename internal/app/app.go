package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/controller"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/database"
	"quiz_master_backend/pkg/logger"
	"quiz_master_backend/pkg/monitoring"
	"quiz_master_backend/pkg/security"
	"quiz_master_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	question *repository.QuestionRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	extractor *service.ExtractorService
	scheduler *service.SchedulerService
	selector  *service.SelectorService
	analytics *service.AnalyticsService
	question  *service.QuestionService
	ingest    *service.IngestService
	export    *service.ExportService
	report    *service.ReportService
}

type controllers struct {
	auth      *controller.AuthController
	question  *controller.QuestionController
	review    *controller.ReviewController
	ingest    *controller.IngestController
	analytics *controller.AnalyticsController
	export    *controller.ExportController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question: repository.NewQuestionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(cfg)
	s.extractor = service.NewExtractorService()
	s.scheduler = service.NewSchedulerService()
	s.selector = service.NewSelectorService()
	s.analytics = service.NewAnalyticsService()

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	s.question = service.NewQuestionService(repos.question, s.scheduler, s.selector, s.analytics, cacheTTL)
	s.ingest = service.NewIngestService(s.extractor, s.question)
	s.export = service.NewExportService(repos.question, s.question, s.storage)
	s.report = service.NewReportService(s.question, &cfg.Report)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		question:  controller.NewQuestionController(s.question),
		review:    controller.NewReviewController(s.question),
		ingest:    controller.NewIngestController(s.ingest),
		analytics: controller.NewAnalyticsController(s.question, s.report),
		export:    controller.NewExportController(s.export),
		health:    controller.NewHealthController(db, s.question.Cache),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	if err := s.report.Start(); err != nil {
		logger.Log.Error("注册每日报告任务失败", zap.Error(err))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quiz-master", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/backups", cfg.Storage.LocalPath)
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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.report != nil {
		a.services.report.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
