package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/journal-go-api/internal/config"
	"github.com/noah-isme/journal-go-api/internal/database"
	"github.com/noah-isme/journal-go-api/internal/handler"
	"github.com/noah-isme/journal-go-api/internal/middleware"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
	"github.com/noah-isme/journal-go-api/internal/router"
	"github.com/noah-isme/journal-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Discipline{},
		&models.Assignment{},
		&models.Lesson{},
		&models.Grade{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	disciplineRepo := repository.NewDisciplineRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	journalRepo := repository.NewJournalRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	journalService := service.NewJournalService(assignmentRepo, logger)
	gridService := service.NewGridService(assignmentRepo, journalRepo, redisClient, cfg.StudentViewTTL, logger)
	reconcileService := service.NewReconcileService(assignmentRepo, journalRepo, gridService, validate, logger)
	lessonService := service.NewLessonService(assignmentRepo, journalRepo, gridService, validate, logger)
	adminService := service.NewAdminService(userRepo, groupRepo, disciplineRepo, assignmentRepo, validate, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	journalHandler := handler.NewJournalHandler(journalService, gridService, reconcileService, lessonService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		JournalHandler: journalHandler,
		AdminHandler:   adminHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
		LoginLimiter:   middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
