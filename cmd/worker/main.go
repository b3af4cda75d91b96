package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/pkg/app"
	"github.com/ghuser/paycontrol/pkg/cache"
	"github.com/ghuser/paycontrol/pkg/config"
	"github.com/ghuser/paycontrol/pkg/database"
	"github.com/ghuser/paycontrol/pkg/events"
	"github.com/ghuser/paycontrol/pkg/logger"
	"github.com/ghuser/paycontrol/pkg/mailer"
	"github.com/ghuser/paycontrol/pkg/scheduler"
	"github.com/ghuser/paycontrol/pkg/telemetry"
	invoicesvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	invoiceEvents "github.com/ghuser/paycontrol/services/invoice/domain/events"
	"github.com/ghuser/paycontrol/services/invoice/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	repo := postgres.NewInvoiceRepository(pool, eventBus)
	invoiceCache := cache.NewInvoiceCache(redisClient)
	sweep := invoicesvcs.NewSweepService(repo, mailer.New(cfg, log), invoiceCache, log)

	sched := scheduler.New(log)
	jobs := []scheduler.Job{
		{
			Name:     "promote-overdue",
			Schedule: cfg.OverdueSweepSchedule,
			Run: func(ctx context.Context) error {
				_, err := sweep.PromoteOverdue(ctx)
				return err
			},
		},
		{
			Name:     "notify-due-today",
			Schedule: cfg.DueTodaySweepSchedule,
			Run: func(ctx context.Context) error {
				_, err := sweep.NotifyDueToday(ctx)
				return err
			},
		},
	}
	for _, job := range jobs {
		if err := sched.Register(job); err != nil {
			log.Error("failed to register scheduled job", "job", job.Name, "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(stopCtx)

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, invoiceEvents.TopicInvoiceCreated, handleInvoiceCreated(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", invoiceEvents.TopicInvoiceCreated,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{invoiceEvents.TopicInvoiceCreated})
	return nil
}

// handleInvoiceCreated returns a handler for invoice.created events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Warms the Redis read-model cache so subsequent GetByID calls are served from cache.
func handleInvoiceCreated(a *app.Application) func(context.Context, *message.Message) error {
	invoiceCache := cache.NewInvoiceCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt invoiceEvents.InvoiceCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		amount, err := decimal.NewFromString(evt.Amount)
		if err != nil {
			return err
		}

		if err := invoiceCache.Set(ctx, &cache.CachedInvoice{
			ID:        evt.InvoiceID,
			OwnerID:   evt.OwnerID,
			Label:     evt.Label,
			Amount:    amount,
			DueDate:   evt.DueDate,
			Status:    evt.Status,
			CreatedAt: evt.OccurredAt,
			UpdatedAt: evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for invoice.created",
				"invoice_id", evt.InvoiceID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed",
				"invoice_id", evt.InvoiceID, "owner_id", evt.OwnerID)
		}

		return nil
	}
}
