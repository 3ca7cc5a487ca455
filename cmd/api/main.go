// Command api runs the youth events HTTP server.
//
// @title Youth Events API
// @version 1.0
// @description Event registration backend for a youth organisation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"youthevents/config"
	_ "youthevents/docs"
	"youthevents/internal/adapters/auth"
	"youthevents/internal/adapters/email"
	httpdelivery "youthevents/internal/delivery/http"
	"youthevents/internal/delivery/http/controllers"
	"youthevents/internal/domain"
	"youthevents/internal/repository/postgres"
	"youthevents/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBDriver, cfg.DBUrl, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database", "driver", cfg.DBDriver)

	if cfg.DBMigrate {
		if err := postgres.Migrate(db, logger); err != nil {
			return err
		}
	}

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)

	userSvc := services.NewUserService(userRepo, roleRepo, logger, cfg.RequestTimeout)
	eventSvc := services.NewEventService(eventRepo, participantRepo, userRepo, cfg.RequestTimeout)
	participantSvc := services.NewParticipantService(participantRepo, eventRepo, userRepo, cfg.RequestTimeout)

	if err := userSvc.SeedTeamRoles(ctx); err != nil {
		return fmt.Errorf("seed team roles: %w", err)
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}
	alerts := services.NewAlertService(mailer, renderer, cfg.Email.AlertRecipient)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Participant: controllers.NewParticipantController(logger, participantSvc),
		Event:       controllers.NewEventController(logger, eventSvc),
		User:        controllers.NewUserController(logger, userSvc),
		Health:      controllers.NewHealthController(logger, db),
	}, verifier, logger)
	handler := httpdelivery.Wrap(mux, httpdelivery.MiddlewareConfig{
		Logger:         logger,
		Alerts:         alerts,
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment, "identity_provider", cfg.IdentityProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config) (domain.IdentityVerifier, error) {
	switch cfg.IdentityProvider {
	case "firebase":
		return auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseCredentialsJSON)
	default:
		return auth.NewJWTVerifier(cfg.JWTSecret), nil
	}
}
