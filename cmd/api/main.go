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

	"github.com/widya-labs/pustaka-api/internal/config"
	"github.com/widya-labs/pustaka-api/internal/database"
	"github.com/widya-labs/pustaka-api/internal/handler"
	"github.com/widya-labs/pustaka-api/internal/middleware"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
	"github.com/widya-labs/pustaka-api/internal/router"
	"github.com/widya-labs/pustaka-api/internal/scheduler"
	"github.com/widya-labs/pustaka-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load timezone %q: %v", cfg.Timezone, err)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.AttendanceRecord{},
		&models.BookReview{},
		&models.Post{},
		&models.Comment{},
		&models.LeaderboardEntry{},
		&models.AuditLog{},
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
	activityRepo := repository.NewActivityRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	forumRepo := repository.NewForumRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditRecorder := service.NewAuditRecorder(auditRepo, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, activityRepo, auditRecorder, validate, location, logger)
	sweepService := service.NewSweepService(attendanceRepo, auditRecorder, location, logger)
	reviewService := service.NewReviewService(reviewRepo, userRepo, auditRecorder, validate, logger)
	forumService := service.NewForumService(forumRepo, reviewRepo, validate, logger)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, reviewRepo, userRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	reportService := service.NewReportService(reportRepo, location, logger)

	if created, err := activityService.SeedDefaults(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to seed default activities")
	} else if created > 0 {
		logger.Info().Int64("created", created).Msg("seeded default activities")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, validate, logger),
		AttendanceHandler:  handler.NewAttendanceHandler(attendanceService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, cfg.SeedToken, logger),
		ReviewHandler:      handler.NewReviewHandler(reviewService, logger),
		ForumHandler:       handler.NewForumHandler(forumService, logger),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService, logger),
		ReportHandler:      handler.NewReportHandler(reportService, logger),
		SweepHandler:       handler.NewSweepHandler(sweepService, location, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	sweepScheduler := scheduler.New(sweepService, location, logger)
	if err := sweepScheduler.Start(cfg.CronSpec()); err != nil {
		log.Fatalf("failed to start sweep scheduler: %v", err)
	}
	defer sweepScheduler.Stop()

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
