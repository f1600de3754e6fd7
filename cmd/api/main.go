// @title LearnOS API
// @version 1.0
// @description Generates and stores five-minute beginner lessons with a short quiz.
// @host localhost:3000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnos/internal/adapter"
	"learnos/internal/adapter/events"
	"learnos/internal/adapter/lessongen"
	"learnos/internal/cache"
	"learnos/internal/config"
	"learnos/internal/database"
	"learnos/internal/domain"
	"learnos/internal/handler"
	"learnos/internal/logger"
	"learnos/internal/repository"
	"learnos/internal/sanitize"
	"learnos/internal/server"
	"learnos/internal/service"

	_ "learnos/cmd/api/docs"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to open lesson store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	appLogger.Info("Lesson store ready", zap.String("driver", cfg.Store.Driver))

	var cacheAdapter domain.Cache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		store = repository.NewCachedLessonRepository(store, cacheAdapter, cfg.Cache.LessonTTL)
		appLogger.Info("Redis lesson cache enabled", zap.Duration("ttl", cfg.Cache.LessonTTL))
	}

	generator, err := lessongen.New(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create lesson generator", zap.String("provider", cfg.Generator.Provider), zap.Error(err))
	}
	if generator == nil {
		appLogger.Warn("Lesson generation is not configured; only stored lessons can be served",
			zap.String("provider", cfg.Generator.Provider))
	} else {
		appLogger.Info("Lesson generator initialized", zap.String("provider", cfg.Generator.Provider))
	}

	sanitizer, err := sanitize.NewLessonSanitizer()
	if err != nil {
		appLogger.Fatal("Failed to compile lesson schema", zap.Error(err))
	}

	var publisher domain.LessonEventPublisher
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPLessonPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			appLogger.Fatal("Failed to create lesson event publisher", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	lessonService := service.NewLessonService(store, generator, sanitizer, publisher, cfg.Generator.Timeout)

	lessonHandler := handler.NewLessonHandler(lessonService)
	healthHandler := handler.NewHealthHandler(store, cacheAdapter, cfg.GenerationConfigured(), cfg.Server.Port)

	app := server.NewApp(cfg.Server, lessonHandler, healthHandler)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}

// openStore connects the configured lesson store and returns its closer.
func openStore(ctx context.Context, cfg *config.Config) (domain.LessonRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreOracle, config.StoreGodror:
		driver, err := database.DriverName(cfg.Store.Driver)
		if err != nil {
			return nil, nil, err
		}
		db, err := database.NewSQLXOracleDB(ctx, driver, cfg.GetDSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewLessonDatabaseAdapter(db), func() { _ = db.Close() }, nil

	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		col := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if err := repository.EnsureLessonIndexes(connectCtx, col); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		closer := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return repository.NewLessonMongoAdapter(col), closer, nil

	case config.StoreMemory:
		logger.Get().Warn("Using in-memory lesson store; lessons are lost on restart")
		return repository.NewLessonMemoryAdapter(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver: %q", cfg.Store.Driver)
}
