package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"jobza_backend/database"
	"jobza_backend/internal/auth"
	"jobza_backend/internal/config"
	"jobza_backend/internal/email"
	"jobza_backend/internal/events"
	"jobza_backend/internal/handlers"
	"jobza_backend/internal/lock"
	"jobza_backend/internal/logger"
	"jobza_backend/internal/middleware"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/routes"
	"jobza_backend/internal/services"
	"jobza_backend/internal/storage"
	"jobza_backend/internal/validator"
	"jobza_backend/internal/workers"
	"jobza_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// infra - внешние зависимости, которые нужно закрыть при остановке
type infra struct {
	storage   storage.Storage
	mailer    email.Provider
	locker    lock.Locker
	publisher events.Publisher
	closers   []func() error
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.Debug = cfg.Server.Env != "production"
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured")
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstSuperAdmin(gormDB, cfg); err != nil {
		// без суперадмина некому модерировать - не запускаемся
		logger.Fatal("Failed to seed first superadmin", "error", err)
	}

	deps, err := initializeInfra(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}
	defer deps.close()

	container, refreshTokenRepo := initializeServices(cfg, deps)
	ginRouter := SetupRouter(cfg, gormDB, container, deps.storage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.NewTokenWorker(gormDB, refreshTokenRepo, time.Hour).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func initializeInfra(cfg *config.Config) (*infra, error) {
	deps := &infra{}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	deps.storage = storageInstance
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	if cfg.Email.SMTPHost != "" {
		smtp := email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			Timeout:   10 * time.Second,
		}, templates)
		if err := smtp.Validate(); err != nil {
			return nil, fmt.Errorf("smtp: %w", err)
		}
		deps.mailer = smtp
	} else {
		logger.Warn("SMTP is not configured, emails are written to the log")
		deps.mailer = &MockEmailProvider{renderer: templates}
	}
	deps.closers = append(deps.closers, deps.mailer.Close)

	if cfg.Redis.Addr != "" {
		client, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.locker = lock.NewRedisLocker(client, time.Duration(cfg.Redis.LockTTLSeconds)*time.Second)
		deps.closers = append(deps.closers, client.Close)
		logger.Info("Redis status lock enabled", "addr", cfg.Redis.Addr)
	} else {
		deps.locker = lock.NewKeyedMutex()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		deps.publisher = publisher
		deps.closers = append(deps.closers, publisher.Close)
		logger.Info("Kafka status events enabled", "brokers", strings.Join(cfg.Kafka.Brokers, ","), "topic", cfg.Kafka.Topic)
	} else {
		deps.publisher = events.NopPublisher{}
	}

	return deps, nil
}

func (d *infra) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("Failed to close dependency", "error", err)
		}
	}
}

func initializeServices(cfg *config.Config, deps *infra) (*services.ServiceContainer, repositories.RefreshTokenRepository) {
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	profileRepo := repositories.NewProfileRepository()
	documentRepo := repositories.NewDocumentRepository()
	connectionRepo := repositories.NewConnectionRepository()

	statuses := services.NewStatusDispatcher(services.DefaultRoleRules(), services.StatusEngineDeps{
		Accounts:  userRepo,
		Profiles:  profileRepo,
		Documents: documentRepo,
		Locker:    deps.locker,
		Publisher: deps.publisher,
	})

	authService := services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, deps.mailer, services.TokenSettings{
		Secret:      cfg.JWT.Secret,
		AccessTTL:   time.Duration(cfg.JWT.TTL) * time.Minute,
		RefreshTTL:  time.Duration(cfg.JWT.RefreshTTLHours) * time.Hour,
		AppBaseURL:  cfg.Email.AppBaseURL,
		FrontendURL: cfg.Server.FrontendURL,
	})

	return &services.ServiceContainer{
		AuthService: authService,
		GoogleAuthService: services.NewGoogleAuthService(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			cfg.Google.RedirectURL,
			cfg.JWT.Secret,
			authService,
		),
		ProfileService: services.NewProfileService(userRepo, profileRepo, statuses),
		DocumentService: services.NewDocumentService(userRepo, documentRepo, deps.storage, statuses, services.UploadLimits{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		}),
		AdminService:      services.NewAdminService(userRepo, profileRepo, documentRepo, connectionRepo, refreshTokenRepo, deps.storage, deps.mailer, statuses),
		ConnectionService: services.NewConnectionService(userRepo, connectionRepo),
		Statuses:          statuses,
	}, refreshTokenRepo
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer, storageInstance storage.Storage) *gin.Engine {
	baseHandler := handlers.NewBaseHandler(validator.New(), cfg.JWT.Secret)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, container.AuthService, container.GoogleAuthService, cfg.Server.FrontendURL),
		ProfileHandler:    handlers.NewProfileHandler(baseHandler, container.ProfileService),
		DocumentHandler:   handlers.NewDocumentHandler(baseHandler, container.DocumentService, cfg.Upload.MaxSize),
		AdminHandler:      handlers.NewAdminHandler(baseHandler, container.AdminService),
		ConnectionHandler: handlers.NewConnectionHandler(baseHandler, container.ConnectionService),
		FileHandler:       handlers.NewFileHandler(baseHandler, storageInstance),
		HealthHandler:     handlers.NewHealthHandler(baseHandler),
	}

	ginRouter := initializeGinRouter(gormDB, cfg.Server.CORSOrigins)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(db *gorm.DB, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(corsOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstSuperAdmin создает суперадмина из конфига, если его еще нет
func seedFirstSuperAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstSuperAdminEmail))
	adminPassword := cfg.FirstSuperAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_SUPERADMIN_EMAIL or FIRST_SUPERADMIN_PASSWORD is not set. Skipping superadmin seeding.")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Superadmin already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for superadmin: %w", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	// у персонала нет ролевого профиля, статус сразу approved
	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		AuthMethod:   models.AuthMethodLocal,
		Role:         models.UserRoleSuperAdmin,
		Status:       models.AccountStatusApproved,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	logger.Info("Created first superadmin", "email", adminEmail)
	return nil
}
