package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctorsportal/internal/api"
	"doctorsportal/internal/auth"
	"doctorsportal/internal/config"
	"doctorsportal/internal/metrics"
	"doctorsportal/internal/repository"
	"doctorsportal/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the reminder job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
				defer done()
				if err := store.Close(closeCtx); err != nil {
					log.Warn().Err(err).Msg("closing store")
				}
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.NewMetrics("doctors_portal", reg)

			notifier := newNotifier(cfg)
			services := buildServices(cfg, store, notifier, m, reg)

			scheduler, err := startReminders(cfg, service.NewJobService(store.Bookings, notifier, cfg.DateLayout))
			if err != nil {
				return err
			}
			if scheduler != nil {
				defer func() { <-scheduler.Stop().Done() }()
			}

			return listen(ctx, ":"+cfg.Port, api.NewRouter(services))
		},
	}
}

func buildServices(cfg *config.Config, store *repository.Store, notifier service.Notifier,
	m *metrics.Metrics, reg *prometheus.Registry) api.Services {
	signer := auth.NewSigner(cfg.AccessToken, cfg.TokenTTL)

	if cfg.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	if cfg.StripeWebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
	}

	return api.Services{
		Availability:  service.NewAvailabilityService(store.Services, store.Bookings, store.Availability, m),
		Bookings:      service.NewBookingService(store.Bookings, notifier, m),
		Users:         service.NewUserService(store.Users),
		Tokens:        service.NewTokenService(store.Users, signer),
		Admins:        service.NewAdminAuthService(store.Admins, signer),
		Catalog:       service.NewCatalogService(store.Services),
		Payments:      service.NewPaymentService(store.Bookings, store.Payments, service.NewStripeService(cfg.StripeSecretKey), cfg.PaymentCurrency),
		WebhookSecret: cfg.StripeWebhookSecret,
		Gatherer:      reg,
	}
}

// newNotifier wires the channels whose credentials are present.
func newNotifier(cfg *config.Config) service.Notifier {
	var email service.EmailSender
	if cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail != "" {
		email = service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	} else {
		log.Warn().Msg("SendGrid credentials not set, booking emails are disabled")
	}

	var sms service.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sms = service.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	} else {
		log.Warn().Msg("Twilio credentials not set, booking SMS are disabled")
	}

	if email == nil && sms == nil {
		return service.NopNotifier{}
	}
	return service.NewSenderService(email, sms)
}

// startReminders returns nil when REMINDER_CRON is empty.
func startReminders(cfg *config.Config, jobs *service.JobService) (*cron.Cron, error) {
	if cfg.ReminderCron == "" {
		log.Info().Msg("reminder job disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.ReminderCron, func() {
		if _, err := jobs.SendReminders(context.Background(), time.Now()); err != nil {
			log.Error().Err(err).Msg("reminder job failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", cfg.ReminderCron).Msg("reminder job scheduled")
	return c, nil
}

func listen(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", addr).Msg("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
