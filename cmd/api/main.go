package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"campuseventhub/config"
	_ "campuseventhub/docs"
	"campuseventhub/internal/adapters/auth"
	"campuseventhub/internal/adapters/cache"
	"campuseventhub/internal/adapters/email"
	delivery "campuseventhub/internal/delivery/http"
	"campuseventhub/internal/delivery/http/controllers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/repository/postgres"
	"campuseventhub/internal/services"
)

// @title Campus Event Hub API
// @version 1.0
// @description REST API for campus event management: event lifecycle, venue availability, attendee registration, and admin review.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	hasher := auth.NewBcryptHasher(auth.DefaultCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	statsCache := cache.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, hasher, jwtManager, cfg.JWTExpiry, emailService, logger)
	venueService := services.NewVenueService(eventRepo)
	eventService := services.NewEventService(eventRepo, venueService)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo)
	adminService := services.NewAdminService(eventRepo, userRepo, registrationRepo, emailService, statsCache, logger)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:     1,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})

	mux := delivery.NewRouter(delivery.RouterDeps{
		Auth:          controllers.NewAuthController(logger, userService),
		Users:         controllers.NewUserController(logger, userService),
		Events:        controllers.NewEventController(logger, eventService),
		Venues:        controllers.NewVenueController(logger, venueService),
		Attendees:     controllers.NewAttendeeController(logger, attendeeService),
		Admin:         controllers.NewAdminController(logger, adminService),
		TokenVerifier: jwtManager,
		RateLimiter:   rateLimiter,
	})

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
