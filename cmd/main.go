package main

import (
	"context"
	"fmt"
	"geopost-service/internal/api/handlers"
	"geopost-service/internal/config"
	"geopost-service/internal/database"
	"geopost-service/internal/database/blob"
	"geopost-service/internal/database/minio"
	"geopost-service/internal/database/mongo"
	"geopost-service/internal/database/redis"
	"geopost-service/internal/events"
	"geopost-service/internal/middleware"
	"geopost-service/internal/repository"
	"geopost-service/internal/service"
	"geopost-service/pkg/discovery"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

// openObjectStore selects the storage backend named by STORAGE_BACKEND and
// makes sure the post bucket exists
func openObjectStore(ctx context.Context, cfg *config.Config) (database.ObjectStore, error) {
	var store database.ObjectStore
	switch cfg.Storage.Backend {
	case "minio":
		storage, err := minio.NewStorage(&cfg.MinIO)
		if err != nil {
			return nil, err
		}
		store = storage
	case "blob":
		storage, err := blob.OpenStorage(ctx, cfg.Storage.BlobURL)
		if err != nil {
			return nil, err
		}
		store = storage
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if err := store.EnsureBucket(ctx, cfg.Storage.Bucket); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Storage.Bucket, err)
	}
	return store, nil
}

// ServiceContainer holds all service dependencies
type ServiceContainer struct {
	PostRepository    *repository.PostRepository
	UserRepository    *repository.UserRepository
	JournalRepository *repository.JournalRepository
	UploadService     *service.UploadService
	PostService       *service.PostService
	EventPublisher    events.Publisher
	EventConsumer     events.Consumer
	ServiceDiscovery  *discovery.ServiceRegistry
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	logFile, err := setupLogging(cfg.Log.Dir)
	if err != nil {
		log.Printf("Warning: Failed to set up logging: %v", err)
	} else {
		defer logFile.Close()
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	// Initialize MongoDB
	mongoConn, err := mongo.Connect(startupCtx, &cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer mongoConn.Close()

	// Initialize object storage
	objectStore, err := openObjectStore(startupCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	defer objectStore.Close()
	log.Printf("Using %s object storage, bucket %s", cfg.Storage.Backend, cfg.Storage.Bucket)

	// Initialize Redis, optional
	redisClient := redis.NewClient(startupCtx, &cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize repositories
	userRepository := repository.NewUserRepository(mongoConn.Database)
	postRepository := repository.NewPostRepository(mongoConn.Database, userRepository, cfg.Ingest.EnforceUserReference)
	journalRepository := repository.NewJournalRepository(redisClient, cfg.Ingest.JournalTTL)

	if err := postRepository.EnsureSchema(startupCtx); err != nil {
		log.Fatalf("Failed to register posts schema: %v", err)
	}
	if err := userRepository.CreateIndexes(startupCtx); err != nil {
		log.Printf("Warning: Failed to create user indexes: %v", err)
	}

	// Initialize event publisher
	var eventPublisher events.Publisher
	publisher, err := events.NewEventPublisher(startupCtx, &cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	} else {
		eventPublisher = publisher
		defer publisher.Close()
	}

	uploadService := service.NewUploadService(objectStore, cfg.Ingest.UploadConcurrency)

	// Initialize service container
	container := &ServiceContainer{
		PostRepository:    postRepository,
		UserRepository:    userRepository,
		JournalRepository: journalRepository,
		UploadService:     uploadService,
		PostService:       service.NewPostService(uploadService, postRepository, journalRepository, eventPublisher, cfg),
		EventPublisher:    eventPublisher,
	}

	// Initialize event consumer
	eventConsumer, err := events.NewEventConsumer(startupCtx, &cfg.RabbitMQ, userRepository)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			container.EventConsumer = eventConsumer
			defer eventConsumer.Close()
		}
	}

	// Initialize service discovery
	serviceRegistry, err := discovery.NewServiceRegistry(
		cfg.Consul.Address,
		cfg.Consul.ServiceName,
		cfg.Consul.ServiceID,
		cfg.Server.Port,
		"geo", "posts", cfg.Storage.Backend,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize service discovery: %v", err)
	} else {
		container.ServiceDiscovery = serviceRegistry
		if err := serviceRegistry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		} else {
			log.Println("Successfully registered with Consul")
			defer serviceRegistry.Deregister()
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))
	app.Use(middleware.Metrics())

	// Register routes
	handlers.RegisterHealthRoutes(app)
	handlers.NewPostHandler(container.PostService).RegisterRoutes(app)

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	<-doneChan
	log.Println("Server exited, goodbye!")
}
