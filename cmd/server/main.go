package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"branching-novel/internal/cache"
	"branching-novel/internal/config"
	"branching-novel/internal/database"
	"branching-novel/internal/handler"
	"branching-novel/internal/interfaces"
	"branching-novel/internal/logger"
	"branching-novel/internal/messaging"
	"branching-novel/internal/middleware"
	"branching-novel/internal/service"
)

const (
	rabbitConnectAttempts = 5
	rabbitRetryDelay      = 3 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("db", cfg.Pool().RedactedDSN()),
		zap.Bool("graph_cache", cfg.RedisAddr != ""),
		zap.Bool("progress_events", cfg.RabbitMQURL != ""),
		zap.Int64("start_node_id", cfg.StartNodeID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.ApplyMigrations(cfg.Pool().DSN(), log); err != nil {
		log.Fatal("Failed to apply database migrations", zap.Error(err))
	}

	pool, err := database.NewPool(ctx, cfg.Pool(), log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	var (
		redisClient *redis.Client
		graphCache  = cache.NewNoopGraphCache()
	)
	if cfg.RedisAddr != "" {
		redisClient, err = setupRedis(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		graphCache = cache.NewRedisGraphCache(redisClient, cfg.GraphCacheTTL, log)
		log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	publisher := messaging.NewNoopProgressPublisher(log)
	if cfg.RabbitMQURL != "" {
		conn, err := connectRabbitMQ(ctx, cfg.RabbitMQURL, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer conn.Close()

		var ch *amqp.Channel
		publisher, ch, err = messaging.NewRabbitMQProgressPublisher(conn, cfg.ProgressEventsQueue, log)
		if err != nil {
			log.Fatal("Failed to create progress publisher", zap.Error(err))
		}
		defer ch.Close()
	}

	gameService := buildGameService(pool, graphCache, publisher, cfg.StartNodeID, log)

	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.ZapLogger(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	health := func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", health)
	router.HEAD("/health", health)

	var limiterClient redis.UniversalClient
	if redisClient != nil {
		limiterClient = redisClient
	}
	limiter := middleware.RateLimit(limiterClient, time.Minute, cfg.RateLimitPerMinute, log)
	handler.NewGameHandler(gameService, log).RegisterRoutes(router, limiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// buildGameService wires repositories, the executor and the graph store.
func buildGameService(
	pool *pgxpool.Pool,
	graphCache interfaces.GraphCache,
	publisher interfaces.ProgressPublisher,
	startNodeID int64,
	log *zap.Logger,
) service.GameProgressionService {
	repos := service.GraphRepositories{
		Nodes:      database.NewPgStoryNodeRepository(log),
		Choices:    database.NewPgChoiceRepository(log),
		Dialogues:  database.NewPgDialogueRepository(log),
		Characters: database.NewPgCharacterRepository(log),
		Saves:      database.NewPgGameSaveRepository(log),
	}
	executor := service.NewTxExecutor(pool, log)
	validator := service.NewGraphValidator(repos.Nodes, repos.Choices, log)
	graph := service.NewGraphStore(pool, executor, repos, validator, graphCache, log)

	return service.NewGameProgressionService(service.ProgressionDeps{
		DB:          pool,
		Executor:    executor,
		Validator:   validator,
		Graph:       graph,
		Saves:       repos.Saves,
		Users:       database.NewPgUserRepository(log),
		Publisher:   publisher,
		StartNodeID: startNodeID,
	}, log)
}

func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

func connectRabbitMQ(ctx context.Context, url string, log *zap.Logger) (*amqp.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= rabbitConnectAttempts; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			log.Info("Connected to RabbitMQ", zap.Int("attempt", attempt))
			return conn, nil
		}
		lastErr = err
		log.Warn("RabbitMQ connection failed, retrying", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rabbitRetryDelay):
		}
	}
	return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", rabbitConnectAttempts, lastErr)
}
