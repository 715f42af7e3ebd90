package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/mailer"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	logger := config.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database: open failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is disabled or down
	if rdb != nil {
		defer rdb.Close()
	}

	var workers sync.WaitGroup

	// ---- Live notifications ----
	hub := notify.NewHub(64)
	broker := liveBroker(ctx, cfg, rdb, hub, &workers)

	// ---- Background jobs ----
	jobs, closeJobs := jobPublisher(cfg.Jobs)
	defer closeJobs()
	notifier := service.NewNotifier(mailer.New(cfg.Mail), cfg.Mail.Brand, cfg.Stripe.Currency)
	startConsumer(ctx, cfg.Jobs, notifier.Handle, &workers)

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	superadmins := repository.NewSuperadminRepo(db)
	events := repository.NewEventRepo(db)
	orders := repository.NewOrderRepo(db)
	sellers := repository.NewSellerRepo(db)
	intents := repository.NewPaymentIntentRepo(db)

	// ---- Services ----
	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("stripe: STRIPE_SECRET_KEY not set; payment intents will fail")
	}
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	auth := service.NewAuthService(users, admins, superadmins, jobs, service.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		AccessTTLMin: cfg.AccessTTLMin,
		BcryptCost:   cfg.BcryptCost,
	})
	eventSvc := service.NewEventService(events, cache, broker)
	writer := service.NewOrderWriter(orders, events, intents, broker, jobs)
	checkout := service.NewCheckoutService(gateway, sellers, intents, service.CheckoutConfig{
		Currency:       cfg.Stripe.Currency,
		ApplicationFee: cfg.Stripe.ApplicationFee,
		MinCharge:      cfg.Stripe.MinCharge,
	})

	e := router.New(router.Deps{
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
		DB:           db,
		Cache:        cache,
		LoginLimiter: middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb),
		AdminEvents:  admins,
		Hub:          hub,

		Auth:       handler.NewAuthHandler(auth),
		Events:     handler.NewEventHandler(events, eventSvc),
		Orders:     handler.NewOrderHandler(writer, orders, cfg.Mail.Brand, cfg.Stripe.Currency),
		Profile:    handler.NewProfileHandler(users, orders),
		Payments:   handler.NewPaymentHandler(checkout, gateway, cfg.ReconcileGrace),
		Superadmin: handler.NewSuperadminHandler(users, admins, sellers, cfg.BcryptCost),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	workers.Wait()
}

// liveBroker returns the in-process hub, or a Redis broker feeding it when
// NOTIFY_BACKEND=redis and Redis is available.
func liveBroker(ctx context.Context, cfg config.Config, rdb *redis.Client, hub *notify.Hub, wg *sync.WaitGroup) notify.Broker {
	if cfg.NotifyBackend != "redis" {
		return hub
	}
	if rdb == nil {
		log.Warn().Msg("notify: redis backend requested but redis is unavailable; using in-process hub")
		return hub
	}
	rb := notify.NewRedisBroker(rdb, cfg.NotifyChannel, hub)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := rb.Run(ctx, nil); err != nil {
			log.Error().Err(err).Msg("notify: redis subscription failed")
		}
	}()
	return rb
}

func jobPublisher(cfg config.JobsConfig) (queue.Publisher, func()) {
	switch cfg.Broker {
	case "rabbitmq":
		return queue.NewRabbitPublisher(cfg.RabbitURL, cfg.Queue), func() {}
	case "kafka":
		p := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.Queue)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka: close writer")
			}
		}
	}
	log.Warn().Str("broker", cfg.Broker).Msg("jobs: no broker; confirmation emails are disabled")
	return queue.NopPublisher{}, func() {}
}

func startConsumer(ctx context.Context, cfg config.JobsConfig, handle queue.Handler, wg *sync.WaitGroup) {
	var run func() error
	switch cfg.Broker {
	case "rabbitmq":
		run = func() error { return queue.ConsumeRabbit(ctx, cfg.RabbitURL, cfg.Queue, handle) }
	case "kafka":
		run = func() error { return queue.ConsumeKafka(ctx, cfg.KafkaBrokers, cfg.Queue, cfg.KafkaGroup, handle) }
	default:
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := run(); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("job-consumer stopped")
		}
	}()
}
