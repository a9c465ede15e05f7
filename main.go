package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/cache"
	"github.com/egannguyen/storefront-backend/internal/config"
	delivery "github.com/egannguyen/storefront-backend/internal/delivery/http"
	"github.com/egannguyen/storefront-backend/internal/logger"
	"github.com/egannguyen/storefront-backend/internal/messaging"
	"github.com/egannguyen/storefront-backend/internal/messaging/inproc"
	"github.com/egannguyen/storefront-backend/internal/messaging/kafka"
	"github.com/egannguyen/storefront-backend/internal/notification"
	"github.com/egannguyen/storefront-backend/internal/repository"
	"github.com/egannguyen/storefront-backend/internal/repository/memory"
	"github.com/egannguyen/storefront-backend/internal/repository/postgres"
	"github.com/egannguyen/storefront-backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Storage ---
	store, db, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to init storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	inventory := service.NewInventoryService(store, log)
	if cfg.SeedProducts {
		if err := inventory.SeedProducts(ctx, service.SeedCatalog()); err != nil {
			log.Fatal("Failed to seed products", zap.Error(err))
		}
	}

	// --- Events ---
	var (
		publisher  messaging.Publisher
		subscriber messaging.Subscriber
	)
	if len(cfg.KafkaBrokers) > 0 {
		publisher, subscriber = kafka.NewKafkaBroker(cfg.KafkaBrokers, log)
		log.Info("Publishing order events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		publisher, subscriber = inproc.NewBroker(log)
	}
	defer publisher.Close()

	for _, topic := range []string{messaging.TopicOrderCreated, messaging.TopicOrderStatusChanged} {
		go subscriber.Consume(ctx, topic, "storefront-audit", auditEvent(log, topic))
	}

	// --- Cache ---
	var contentCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, "storefront:")
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rc.Close()
		contentCache = rc
	}

	// --- Mail ---
	smtpCfg := notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SupportEmail,
	}
	var mailer notification.Mailer
	if smtpCfg.Configured() {
		mailer = notification.NewSMTPMailer(smtpCfg)
	} else {
		log.Warn("SMTP is not configured, order emails are disabled")
	}
	storeInfo := notification.StoreInfo{
		Name:         cfg.StoreName,
		SupportEmail: cfg.SupportEmail,
		LogoURL:      cfg.LogoURL,
	}
	var notifyOpts []notification.Option
	if cfg.InvoiceAttachment {
		notifyOpts = append(notifyOpts, notification.WithInvoice(notification.NewHTMLInvoice(storeInfo)))
	}
	notifier := notification.NewEmailNotifier(mailer, storeInfo, log, notifyOpts...)

	// --- HTTP API ---
	handler := delivery.NewHandler(delivery.Services{
		Orders:     service.NewOrderService(store, notifier, publisher, log),
		Customers:  service.NewCustomerService(store, log),
		Inventory:  inventory,
		Payments:   service.NewPaymentService(store),
		FAQs:       service.NewFAQService(store, contentCache, cfg.CacheTTL, log),
		HeroSlides: service.NewHeroSlideService(store, contentCache, cfg.CacheTTL, log),
		Trends:     service.NewTrendService(store, contentCache, cfg.CacheTTL, log),
	}, log, cfg.Development())

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: delivery.NewRouter(handler, delivery.RouterConfig{
			CORSOrigin:     cfg.CORSOrigin,
			RequestTimeout: cfg.RequestTimeout,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			TrustProxy:     cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

// openStore returns the configured store. db is nil for the memory driver.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.Store, *sql.DB, error) {
	if cfg.StorageDriver == "memory" {
		log.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil, nil
	}

	db, err := postgres.InitDB(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStore(db), db, nil
}

// auditEvent logs every order event seen on topic.
func auditEvent(log *zap.Logger, topic string) func(ctx context.Context, payload []byte) error {
	return func(_ context.Context, payload []byte) error {
		var event struct {
			OrderID int64  `json:"order_id"`
			Status  string `json:"status"`
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		log.Info("Order event",
			zap.String("topic", topic),
			zap.Int64("order_id", event.OrderID),
			zap.String("status", event.Status),
		)
		return nil
	}
}
