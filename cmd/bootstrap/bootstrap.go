package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lastwill-backend/config"
	deliveryHttp "lastwill-backend/internal/delivery/http"
	"lastwill-backend/internal/delivery/http/handler"
	"lastwill-backend/internal/delivery/http/middleware"
	"lastwill-backend/internal/infrastructure/cache"
	"lastwill-backend/internal/infrastructure/database"
	"lastwill-backend/internal/repository"
	"lastwill-backend/internal/service"
	"lastwill-backend/internal/usecase"
	"lastwill-backend/pkg/jwt"
	"lastwill-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	RedisClient   *redis.Client
	Server        *http.Server
	ExpiryService *service.ExpiryService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, expiry := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.ExpiryService = expiry

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.ExpiryService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	professionalRepo := repository.NewProfessionalProfileRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	willRepo := repository.NewWillRecordRepository()
	postalRepo := repository.NewPostalCodeRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	geoIndex := service.NewGeoIndex(db, redisClient, log, postalRepo, cfg.Engine)
	notifier := service.NewLogNotifier(log)
	auditService := service.NewAuditService(log, auditLogRepo)
	expiryService := service.NewExpiryService(db, log, appointmentRepo, cfg.Engine)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, availabilityRepo, appointmentRepo)
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, professionalRepo, geoIndex, auditService, jwtService, redisClient)
	professionalUsecase := usecase.NewProfessionalUsecase(db, log, professionalRepo, availabilityRepo, userRepo, availabilityUsecase, geoIndex, auditService, notifier)
	matchingUsecase := usecase.NewMatchingUsecase(db, log, professionalRepo, geoIndex, availabilityUsecase, cfg.Engine)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, professionalRepo, userRepo, availabilityUsecase, auditService, notifier, cfg.Engine)
	willUsecase := usecase.NewWillUsecase(db, log, willRepo, userRepo, auditService, notifier)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	professionalHandler := handler.NewProfessionalHandler(professionalUsecase, customValidator)
	matchingHandler := handler.NewMatchingHandler(matchingUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	willHandler := handler.NewWillHandler(willUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, professionalHandler, matchingHandler, appointmentHandler, willHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, expiryService
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start the pending appointment sweeper
	app.ExpiryService.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Stop background workers before closing connections
	app.ExpiryService.Stop()

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
