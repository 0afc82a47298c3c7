package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/config"
	"github.com/liftlab/liftlab/internal/db"
	"github.com/liftlab/liftlab/internal/kvstore"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/service"
	"github.com/liftlab/liftlab/internal/storage"
	"github.com/liftlab/liftlab/internal/trainer"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	CacheDB        *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProfileService *service.ProfileService
	EmailService   *service.EmailService
	ChatService    *service.ChatService
	MoodService    *service.MoodService
	RecordService  *service.RecordService
	WorkoutService *service.WorkoutService
	PhotoService   *service.PhotoService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize remote database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Local cache database (sync fallback for chat and mood stores)
	cacheDB, err := db.InitCache(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %v", err)
	}

	cache, err := kvstore.New(cacheDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kv store: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	messageRepository := repository.NewMessageRepository(database)
	moodRepository := repository.NewMoodRepository(database)
	recordRepository := repository.NewRecordRepository(database)
	workoutRepository := repository.NewWorkoutRepository(database)
	statsRepository := repository.NewStatsRepository(database)
	photoRepository := repository.NewPhotoRepository(database)

	// Storage is optional; photo uploads are rejected when unset
	var photoStorage storage.Storage
	if cfg.StorageEnabled() {
		photoStorage, err = storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	} else {
		slog.Info("S3 storage not configured, photo uploads disabled")
	}

	// Trainer model is optional; chat degrades to the canned reply
	var generator trainer.Generator
	if cfg.TrainerEnabled() {
		generator, err = trainer.New(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize trainer: %v", err)
		}
	} else {
		slog.Info("trainer model not configured, chat uses fallback replies")
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.TokenPasswordResetExpiry,
		cfg.TokenMagicLinkExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, emailService)
	profileService := service.NewProfileService(profileRepository)
	chatService := service.NewChatService(messageRepository, cache, generator)
	moodService := service.NewMoodService(moodRepository, cache)
	recordService := service.NewRecordService(recordRepository, profileRepository)
	workoutService := service.NewWorkoutService(workoutRepository, statsRepository)
	photoService := service.NewPhotoService(photoRepository, photoStorage)

	return &App{
		Cfg:            cfg,
		DB:             database,
		CacheDB:        cacheDB,
		AuthService:    authService,
		UserService:    userService,
		ProfileService: profileService,
		EmailService:   emailService,
		ChatService:    chatService,
		MoodService:    moodService,
		RecordService:  recordService,
		WorkoutService: workoutService,
		PhotoService:   photoService,
	}, nil
}

func (a *App) Close() error {
	if a.CacheDB != nil {
		err := a.CacheDB.Close()
		if err != nil {
			slog.Error("failed to close cache database", "error", err)
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
