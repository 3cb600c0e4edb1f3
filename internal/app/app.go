package app

import (
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/controller"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/service"
	"devlingo_backend/pkg/database"
	"devlingo_backend/pkg/logger"
	"devlingo_backend/pkg/monitoring"
	"devlingo_backend/pkg/security"
	"devlingo_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user     *repository.UserRepository
	exercise *repository.ExerciseRepository
	response *repository.ResponseRepository
	quiz     *repository.QuizRepository
	exam     *repository.ExamRepository
	speaking *repository.SpeakingRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	content    *service.ContentService
	quiz       *service.QuizService
	exam       *service.ExamService
	speech     *service.SpeechService
	feedback   *service.FeedbackService
	generation *service.GenerationService
	speaking   *service.SpeakingService
	progress   *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	exercise *controller.ExerciseController
	quiz     *controller.QuizController
	exam     *controller.ExamController
	speaking *controller.SpeakingController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新入口，由 configwatcher 调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		exercise: repository.NewExerciseRepository(db),
		response: repository.NewResponseRepository(db),
		quiz:     repository.NewQuizRepository(db),
		exam:     repository.NewExamRepository(db),
		speaking: repository.NewSpeakingRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(repos.exercise, rdb, cfg)
	s.quiz = service.NewQuizService(repos.exercise, repos.response, repos.quiz, repos.user)
	s.exam = service.NewExamService(repos.exam, repos.exercise, repos.response, repos.user)
	s.speech = service.NewSpeechService(cfg.Speech)
	s.feedback = service.NewFeedbackService(cfg.AI)
	s.generation = service.NewGenerationService(repos.exercise, cfg.AI)
	s.speaking = service.NewSpeakingService(repos.speaking, s.speech, s.feedback, s.storage, cfg.Speech.SampleRateHertz)
	s.progress = service.NewProgressService(repos.user, repos.response, repos.quiz, repos.exam, repos.speaking)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		user:     controller.NewUserController(s.user),
		exercise: controller.NewExerciseController(s.content, s.generation),
		quiz:     controller.NewQuizController(s.quiz),
		exam:     controller.NewExamController(s.exam),
		speaking: controller.NewSpeakingController(s.speaking, s.speech, s.feedback),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
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

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("devlingo-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ImportExerciseBank 启动参数触发的题库导入
func (a *App) ImportExerciseBank(source string) error {
	report, err := a.services.content.ImportBank(source)
	if err != nil {
		return err
	}
	log.Printf("Exercise bank imported: %d/%d accepted, %d rejected",
		report.Imported, report.Total, report.Rejected)
	return nil
}

func (a *App) Run() {
	defer logger.Log.Sync()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
