package app

import (
	"context"
	"errors"
	"fmt"

	"udaan_backend/database"
	"udaan_backend/internal/auth"
	"udaan_backend/internal/config"
	"udaan_backend/internal/email"
	"udaan_backend/internal/handlers"
	"udaan_backend/internal/logger"
	"udaan_backend/internal/middleware"
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
	"udaan_backend/internal/routes"
	"udaan_backend/internal/services"
	"udaan_backend/internal/storage"
	"udaan_backend/internal/validator"
	"udaan_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedUsers(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed users", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailProvider := initializeEmailProvider(cfg)

	serviceContainer := services.NewServiceContainer(gormDB, storageInstance, emailProvider, services.UploadConfig{
		MaxSize:            cfg.Upload.MaxSize,
		AllowAdminRawDebug: cfg.Upload.AllowAdminRawDebug,
	})

	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	reminderWorker := workers.NewReminderWorker(
		repositories.NewEventRepository(gormDB),
		repositories.NewNotificationRepository(gormDB),
		serviceContainer.Notifications,
	)
	reminderWorker.Start(context.Background())

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, email notifications disabled")
		return &MockEmailProvider{}
	}

	smtpConfig := &email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}

	var provider email.Provider
	if cfg.Email.Provider == "gomail" {
		provider = email.NewGomailProvider(smtpConfig)
	} else {
		provider = email.NewSMTPProvider(smtpConfig)
	}
	if err := provider.Validate(); err != nil {
		logger.Warn("SMTP configuration invalid, email notifications disabled", "error", err)
		return &MockEmailProvider{}
	}
	return provider
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedUsers guarantees one account per role so a fresh deployment is
// usable immediately. Existing accounts are left untouched.
func seedUsers(db *gorm.DB, cfg *config.Config) error {
	seeds := []struct {
		name  string
		email string
		role  models.UserRole
	}{
		{"Admin", cfg.Seed.AdminEmail, models.UserRoleAdmin},
		{"Cameraman One", "cameraman@udaan.local", models.UserRoleCameraman},
		{"Editor One", "editor@udaan.local", models.UserRoleEditor},
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, seed := range seeds {
		var existing models.User
		result := db.Where("email = ?", seed.email).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for user %s: %w", seed.email, result.Error)
		}

		user := &models.User{
			Name:         seed.name,
			Email:        seed.email,
			PasswordHash: hash,
			Role:         seed.role,
			IsFree:       true,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed.email, err)
		}
		logger.Info("Seeded user", "email", seed.email, "role", seed.role)
	}

	return nil
}
