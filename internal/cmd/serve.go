package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"backoffice-service/internal/api"
	"backoffice-service/internal/cache"
	"backoffice-service/internal/config"
	"backoffice-service/internal/events"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
	"backoffice-service/migrations"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := connectDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.AutoMigrate(ctx, db, cfg.DB.ConnectRetries); err != nil {
		return err
	}

	var idempotency service.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		idempotency = cache.NewIdempotencyStore(rdb, cache.DefaultIdempotencyTTL)
		logger.Info().Msgf("Idempotency keys stored in Redis at %s", cfg.Redis.Addr)
	}

	var publisher service.OrderEventPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaWriter := config.NewKafkaWriter(cfg.Kafka)
		defer kafkaWriter.Close()
		publisher = events.NewKafkaPublisher(kafkaWriter)
		logger.Info().Msgf("Publishing order events to topic %s", cfg.Kafka.Topic)
	}

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	productService := service.NewProductService(productRepo, categoryRepo)
	e := api.NewRouter(api.Services{
		Categories: service.NewCategoryService(categoryRepo),
		Products:   productService,
		Orders:     service.NewOrderService(orderRepo, idempotency, publisher),
		Reports:    service.NewReportService(orderRepo),
		Auth:       service.NewAuthService(userRepo, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		Ping:       db.PingContext,
	}, api.RateLimit{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Listening on %s", cfg.Server.Addr)
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
