package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LeeyaD/phonebook-server/config"
	"github.com/LeeyaD/phonebook-server/internal/container"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure/search"
	"github.com/LeeyaD/phonebook-server/internal/router"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
	"github.com/LeeyaD/phonebook-server/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogFile)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Storage (runs migrations for postgres)
	store, closeStore, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Redis backs the rate limiters only
	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb, 3*time.Second); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting fails open")
		}
		container.SetRedis(rdb)
	}

	// Elasticsearch contact index
	if cfg.ElasticsearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := search.NewContactIndex(es, cfg.ESContactsIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("contact index unavailable; search scans the store")
		} else {
			container.SetContactIndex(idx)
		}
	}

	// RabbitMQ publisher for registration emails
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; registration emails disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(store)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))

	r := router.NewEngine()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
