package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rewardsuite/rms-backend/api/routes"
	"github.com/rewardsuite/rms-backend/internal/cache"
	"github.com/rewardsuite/rms-backend/internal/config"
	"github.com/rewardsuite/rms-backend/internal/handlers"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	mongorepo "github.com/rewardsuite/rms-backend/internal/repositories/mongodb"
	"github.com/rewardsuite/rms-backend/internal/services"
	"github.com/rewardsuite/rms-backend/pkg/mongodb"
	"github.com/rewardsuite/rms-backend/pkg/token"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)
	gin.SetMode(config.GetEnv("GIN_MODE", gin.DebugMode))
	rand.Seed(time.Now().UnixNano())

	if cfg.JWT.Secret == "" {
		slog.Error("JWT.Secret is not configured")
		os.Exit(1)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	policyMongoRepo := mongorepo.NewRewardPolicyRepository(db)
	if err := policyMongoRepo.EnsureIndexes(context.Background()); err != nil {
		slog.Error("Failed to create reward policy indexes", "error", err)
		os.Exit(1)
	}
	var policyRepo repositories.RewardPolicyRepository = policyMongoRepo
	var customerRepo repositories.CustomerRepository = mongorepo.NewCustomerRepository(db)
	var transactionRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Optional policy read cache
	var policyCache services.PolicyCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		policyCache = cache.NewRedisPolicyCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		slog.Info("Policy cache enabled", "addr", cfg.Redis.Addr)
	}

	// Services
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	policyService := services.NewRewardPolicyService(policyRepo, transactionRepo, policyCache)
	spinService := services.NewSpinWheelService(customerRepo, transactionRepo, policyService)
	customerService := services.NewCustomerService(customerRepo, transactionRepo, policyService)
	authService := services.NewAuthService(adminRepo, customerRepo, tokens)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		Tokens:              tokens,
		AuthHandler:         handlers.NewAuthHandler(authService),
		RewardPolicyHandler: handlers.NewRewardPolicyHandler(policyService),
		SpinWheelHandler:    handlers.NewSpinWheelHandler(spinService),
		CustomerHandler:     handlers.NewCustomerHandler(customerService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if !config.GetEnvAsBool("LOG_JSON", true) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
