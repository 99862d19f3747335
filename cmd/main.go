package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/api"
	"github.com/deepfakebank/transfer-authorization/internal/biometric"
	"github.com/deepfakebank/transfer-authorization/internal/config"
	"github.com/deepfakebank/transfer-authorization/internal/detection"
	"github.com/deepfakebank/transfer-authorization/internal/events"
	"github.com/deepfakebank/transfer-authorization/internal/handlers"
	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/repository"
	"github.com/deepfakebank/transfer-authorization/internal/repository/memory"
	"github.com/deepfakebank/transfer-authorization/internal/service"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := telemetry.Init("transfer-authorization"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Transfer Authorization Service")

	var (
		users        interfaces.UserRepository
		accounts     interfaces.AccountRepository
		transactions interfaces.TransactionRepository
		alerts       interfaces.AlertRepository
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := repository.InitDB(db); err != nil {
			telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
		}

		users = repository.NewUserRepository(db)
		accounts = repository.NewAccountRepository(db)
		transactions = repository.NewTransactionRepository(db)
		alerts = repository.NewAlertRepository(db)
	} else {
		// No database configured: run against in-memory stores.
		telemetry.Logger.Warn("DATABASE_URL not set, using in-memory repositories")
		users = memory.NewUserStore()
		accounts = memory.NewAccountStore()
		transactions = memory.NewTransactionStore()
		alerts = memory.NewAlertStore()
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	detector := detection.NewSimulatedDetector(
		time.Now().UnixNano(),
		cfg.FraudThreshold,
		cfg.FraudPositiveRate,
		0,
	)
	capture := &biometric.StubProvider{Delay: cfg.CaptureDelay}

	authService := service.NewAuthService(users, accounts, []byte(cfg.JWTSecret))
	authorizer := service.NewAuthorizer(accounts, transactions, alerts, capture, detector, publisher, redisClient,
		service.AuthorizerOptions{
			MinTransferAmount: cfg.MinTransferAmount,
			CaptureTimeout:    cfg.CaptureTimeout,
			AssessTimeout:     cfg.AssessTimeout,
		})

	r := api.NewRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Transfer:    handlers.NewTransferHandler(authService, authorizer),
		Transaction: handlers.NewTransactionHandler(accounts, transactions),
		Alert:       handlers.NewAlertHandler(alerts),
		Upload:      handlers.NewUploadHandler(biometric.NewArtifactStore(cfg.UploadDir)),
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Transfer Authorization Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
