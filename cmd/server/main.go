package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/config"
	api "github.com/tazhibayda/club-service/internal/http"
	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/mail"
	"github.com/tazhibayda/club-service/internal/metrics"
	"github.com/tazhibayda/club-service/internal/payment"
	"github.com/tazhibayda/club-service/internal/queue"
	"github.com/tazhibayda/club-service/internal/repo"
	"github.com/tazhibayda/club-service/internal/service"
	"github.com/tazhibayda/club-service/internal/uploads"
	"github.com/tazhibayda/club-service/internal/ws"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}

	rds := repo.NewRedis(cfg.RedisAddr)
	defer rds.Close()
	if err := rds.Ping(ctx); err != nil {
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}
	tokens := repo.NewTokenStore(rds)
	refresh := repo.NewRefreshRegistry(rds)

	pub, err := queue.NewRabbit(cfg.RabbitURL, cfg.EventExchange)
	if err != nil {
		logger.Warn("rabbit unavailable, events disabled", zap.Error(err))
		pub = queue.NewNoop()
	}
	defer pub.Close()

	hub := ws.NewHub()

	notifs := service.NewNotifications(store, store, hub, pub, cfg.EventExchange)
	comments := service.NewComments(store, store, store, notifs, hub)
	likes := service.NewLikes(store, store, notifs, hub)

	pool := uploads.NewPool(cfg.UploadWorkers, cfg.UploadQueueCap)
	defer pool.Close()
	storage, err := uploads.NewS3Storage(ctx, uploads.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Fatal("s3 init", zap.Error(err))
	}

	h := &api.Handler{
		Store:           store,
		Tokens:          tokens,
		Refresh:         refresh,
		Comments:        comments,
		Likes:           likes,
		Notifs:          notifs,
		Hub:             hub,
		Uploads:         uploads.NewService(pool, storage),
		Payments:        payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey),
		Events:          pub,
		EventExchange:   cfg.EventExchange,
		JWTSecret:       cfg.JWTSecret,
		AccessTTL:       time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL:      time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}
	r := api.NewRouter(h)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// mail worker: consumes notification events published by the dispatcher
	go func() {
		cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.EventExchange, cfg.MailQueue, cfg.MailBindKey)
		if err != nil {
			logger.Warn("mail worker disabled", zap.Error(err))
			return
		}
		defer cons.Close()
		if err := cons.Consume(runCtx, cfg.MailWorkers, mail.HandleNotificationCreated(mail.LogSender{})); err != nil {
			logger.Error("mail worker stopped", zap.Error(err))
		}
	}()

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("club-service listening", zap.String("port", cfg.Port))

	select {
	case <-runCtx.Done():
		logger.Info("signal received, shutting down")
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
