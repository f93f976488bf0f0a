package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/bagdasarian/org-service/internal/auth"
	"github.com/bagdasarian/org-service/internal/config"
	"github.com/bagdasarian/org-service/internal/handler"
	"github.com/bagdasarian/org-service/internal/handler/server"
	"github.com/bagdasarian/org-service/internal/notify"
	"github.com/bagdasarian/org-service/internal/repository/postgres"
	"github.com/bagdasarian/org-service/internal/service"
	"github.com/bagdasarian/org-service/internal/telemetry"
	"github.com/bagdasarian/org-service/migrations"
	"github.com/rs/zerolog/log"
)

type ServeCmd struct {
	AutoMigrate bool `help:"Apply migrations before serving." default:"false" env:"AUTO_MIGRATE"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.AutoMigrate {
		applied, err := postgres.Migrate(ctx, rt.db, migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Int("applied", applied).Msg("migrations applied")
	}

	sender, err := newSender(rt.cfg.Notifications)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(sender, notify.DispatcherConfig{
		Workers:     rt.cfg.Notifications.Workers,
		QueueSize:   rt.cfg.Notifications.QueueSize,
		MaxAttempts: deliveryAttempts(rt.cfg.Notifications.MaxAttempts),
	}, telemetry.GetMetrics())
	dispatcher.Start()

	store := postgres.NewStore(rt.db)
	transferService := service.NewTransferService(store, dispatcher, rt.cfg.Notifications.BaseURL)
	organizationService := service.NewOrganizationService(store, rt.cfg.Organizations.Quota)

	h := handler.NewHandler(organizationService, transferService, store)
	verifier := auth.NewTokenVerifier(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.Issuer)
	srv := server.NewServer(h, verifier, rt.cfg.HTTP.Addr)

	log.Info().Str("version", globals.Version).Msg("starting org-service")

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	// Уже принятые в очередь письма дописываются после остановки HTTP
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("notification queue not drained")
	}

	return nil
}

// deliveryAttempts - хотя бы одна попытка доставки
func deliveryAttempts(n int) uint {
	if n < 1 {
		return 1
	}
	return uint(n)
}

func newSender(cfg config.NotificationsConfig) (notify.Sender, error) {
	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	smtpCfg := notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
		FromName: cfg.FromName,
	}
	if !smtpCfg.Configured() {
		log.Warn().Msg("SMTP is not configured, notifications will only be logged")
		return notify.NewLogSender(renderer), nil
	}

	return notify.NewSMTPSender(smtpCfg, renderer), nil
}
