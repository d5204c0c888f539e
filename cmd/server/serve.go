package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"greenpark/internal/api"
	"greenpark/internal/config"
	"greenpark/internal/metrics"
	"greenpark/internal/repository"
	"greenpark/internal/service"
	"greenpark/internal/toast"
	"greenpark/internal/ui"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.New()
	toastOpts := []toast.Option{toast.WithListener(m.ToastListener())}
	if cfg.ToastTTL > 0 {
		toastOpts = append(toastOpts, toast.WithTTL(cfg.ToastTTL))
	}
	if cfg.ToastMax > 0 {
		toastOpts = append(toastOpts, toast.WithMaxLen(cfg.ToastMax))
	}
	registry := toast.NewRegistry(toastOpts...)

	sender := service.NewSenderService(
		service.NewSendGridClient(cfg.SendGridAPIKey),
		service.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		service.SenderConfig{
			FromEmail:    cfg.SendGridFromEmail,
			FromName:     cfg.SendGridFromName,
			SMSFrom:      cfg.TwilioFromNumber,
			WhatsAppFrom: cfg.TwilioWhatsAppFrom,
		},
		logger.Named("sender"),
	)
	defer sender.Wait()

	reservations := service.NewReservationService(
		repository.NewReservationRepository(db),
		service.NewStripeService(cfg.StripeSecretKey, cfg.PublicBaseURL),
		sender,
		logger.Named("reservations"),
	)
	adminAuth := service.NewAdminAuthService(repository.NewAdminAuthRepository(db), cfg.JWTSecret)

	jobs := service.NewJobService(repository.NewJobRepository(db), registry, logger.Named("jobs"))
	jobs.OnSessions(m.SetToastSessions)
	scheduler := cron.New()
	if err := jobs.Schedule(scheduler, cfg.PendingReservationTTL, cfg.ToastIdleTimeout); err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	var whatsApp *ui.WhatsAppButton
	if cfg.WhatsAppPhone != "" {
		whatsApp = &ui.WhatsAppButton{Phone: cfg.WhatsAppPhone, Message: cfg.WhatsAppMessage}
	}

	router := api.NewRouter(api.Routes{
		Landing:   api.NewLandingHandler(reservations, registry, whatsApp, m, logger.Named("landing")),
		Toasts:    api.NewToastHandler(registry, m, logger.Named("toasts")),
		Users:     api.NewUserReservationHandler(reservations, logger.Named("api")),
		Admin:     api.NewAdminHandler(reservations, adminAuth, logger.Named("admin")),
		Stripe:    api.NewStripeWebhookHandler(cfg.StripeWebhookSecret, reservations, logger.Named("stripe")),
		Registry:  registry,
		Metrics:   m,
		JWTSecret: cfg.JWTSecret,
		Health:    db.PingContext,
	})

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{cfg.PublicBaseURL}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)
	stdLog, err := zap.NewStdLogAt(logger.Named("http"), zap.ErrorLevel)
	if err != nil {
		return err
	}
	handler := handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(router)
	handler = handlers.LoggingHandler(zap.NewStdLog(logger.Named("access")).Writer(), handler)
	handler = cors(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdLog,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
