// Package main runs the gym booking API server.
//
// @title Gym Booking API
// @version 1.0
// @description Weekly time-block booking for the gym: schedule, reservations, suggestions and survey reports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbooking/config"
	_ "gymbooking/docs"
	authadapter "gymbooking/internal/adapters/auth"
	"gymbooking/internal/adapters/email"
	"gymbooking/internal/adapters/events"
	"gymbooking/internal/adapters/survey"
	deliveryhttp "gymbooking/internal/delivery/http"
	"gymbooking/internal/delivery/http/controllers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/delivery/ws"
	"gymbooking/internal/domain"
	"gymbooking/internal/jobs"
	"gymbooking/internal/repository/postgres"
	"gymbooking/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	clock := domain.SystemClock{}

	// Repositories
	blockRepo := postgres.NewTimeBlockRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	suggestionRepo := postgres.NewSuggestionRepository(db)

	// Notifications
	hub := ws.NewHub(logger)
	defer hub.Close()
	publisher := events.Fanout{hub}
	if cfg.RabbitURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events stay local", "err", err)
		} else {
			defer rabbit.Close()
			publisher = append(publisher, rabbit)
		}
	}
	emailService, err := newEmailService(cfg, logger)
	if err != nil {
		return err
	}

	// Services
	jwt := authadapter.NewJWT(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, roleRepo, authadapter.NewBcryptHasher(0), jwt, cfg.IsAdminEmail, cfg.JWTExpiry, clock)
	catalogService := services.NewCatalogService(blockRepo, publisher, services.DefaultRule(cfg.BlockCapacity), clock, logger, cfg.Timeout)
	bookingService := services.NewBookingService(services.BookingDeps{
		Blocks:       blockRepo,
		Reservations: reservationRepo,
		Users:        userRepo,
		Email:        emailService,
		Publisher:    publisher,
		Clock:        clock,
		Location:     cfg.Location,
		Logger:       logger,
		Timeout:      cfg.Timeout,
	})
	userService := services.NewUserService(userRepo, roleRepo, clock, cfg.Timeout)
	suggestionService := services.NewSuggestionService(suggestionRepo, clock, cfg.Timeout)
	reportService := services.NewReportService(surveySources(cfg), services.DefaultSurveyQuestions(), logger)

	warnEmptyCatalog(ctx, catalogService, logger)

	// Reminders
	if cfg.ReminderEnabled {
		scheduler := jobs.NewScheduler(cfg.Location)
		job := &jobs.ReminderJob{
			Reservations: reservationRepo,
			Users:        userRepo,
			Email:        emailService,
			Clock:        clock,
			Location:     cfg.Location,
			Lead:         cfg.ReminderLead,
			Window:       cfg.ReminderWindow,
			Timeout:      cfg.Timeout,
			Logger:       logger,
		}
		if _, err := job.Schedule(scheduler, cfg.ReminderSpec); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	origins := middleware.NewOrigins(cfg.CORSOrigins)
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:   logger,
		Verifier: jwt,
		Origins:  origins,
		Events:   hub.Handler(origins.Allow),
	}, deliveryhttp.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		User:       controllers.NewUserController(logger, userService),
		Booking:    controllers.NewBookingController(logger, bookingService),
		Catalog:    controllers.NewCatalogController(logger, catalogService),
		Suggestion: controllers.NewSuggestionController(logger, suggestionService),
		Report:     controllers.NewReportController(logger, reportService),
		Health:     controllers.NewHealthController(logger, db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "timezone", cfg.Location.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newEmailService(cfg *config.Config, logger *slog.Logger) (domain.EmailService, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	return services.NewEmailService(mailer, renderer, logger), nil
}

func surveySources(cfg *config.Config) []domain.SurveySource {
	var sources []domain.SurveySource
	if cfg.SurveyCSVPath != "" {
		sources = append(sources, survey.NewFileSource(cfg.SurveyCSVPath))
	}
	if cfg.SurveySheetURL != "" {
		sources = append(sources, survey.NewSheetSource(&http.Client{Timeout: 15 * time.Second}, cfg.SurveySheetURL))
	}
	return sources
}

// warnEmptyCatalog logs when no blocks exist. The catalog is only ever
// generated by an administrator (POST /admin/blocks/regenerate or cmd/blocks).
func warnEmptyCatalog(ctx context.Context, catalog domain.CatalogService, logger *slog.Logger) {
	blocks, err := catalog.List(ctx)
	if err != nil {
		logger.Warn("could not read schedule", "err", err)
		return
	}
	if len(blocks) == 0 {
		logger.Warn("schedule is empty; run cmd/blocks or POST /admin/blocks/regenerate")
	}
}
