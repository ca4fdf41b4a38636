package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	pkgdb "library-backend/pkg/database"
	"library-backend/pkg/jwt"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"

	borrowingHandler "library-backend/internal/domains/borrowing/handler"
	borrowingRepo "library-backend/internal/domains/borrowing/repository"
	borrowingService "library-backend/internal/domains/borrowing/service"

	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
)

const cachePrefix = "library"

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// API server, worker và libctl đều dùng chung dependency graph này.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *infraCache.RedisClient
	Cache          cache.Cache
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	Queue          *queue.Client
	JWTManager     *jwt.Manager
	TxManager      pkgdb.TxManager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo      userRepo.Repository
	BookRepo      bookRepo.RepositoryInterface
	BorrowingRepo borrowingRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService       userService.ServiceInterface
	BookService       bookService.ServiceInterface
	BulkImportService bookService.BulkImportService
	BorrowingService  borrowingService.ServiceInterface
	Reconciler        *borrowingService.Reconciler

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler       *userHandler.UserHandler
	BookHandler       *bookHandler.Handler
	BulkImportHandler *bookHandler.BulkImportHandler
	BorrowingHandler  *borrowingHandler.Handler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Redis, MinIO, queue)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3-5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	c.initServices()
	log.Info().Msg("✅ Services initialized")

	c.initHandlers()
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Database
	dbConfig, err := cfg.DBConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	c.TxManager = pkgdb.NewTxManager(db.Pool)
	log.Info().Msg("✅ Database connected")

	// Redis: cache, login throttling and asynq share the same server
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client, cachePrefix)

	// Object storage
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init minio: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("✅ MinIO ready")

	c.Queue = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.BorrowingRepo = borrowingRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Cache,
		userService.LoginPolicy{
			MaxAttempts: cfg.Cache.MaxLoginAttempts,
			Window:      cfg.Cache.LoginLockWindow,
		},
	)

	c.BookService = bookService.NewService(
		c.BookRepo,
		c.BorrowingRepo,
		c.Storage,
		c.ImageProcessor,
		c.Queue,
		c.Cache,
		cfg.Cache.BookTTL,
	)
	c.BulkImportService = bookService.NewBulkImportService(c.BookRepo, c.TxManager)

	c.BorrowingService = borrowingService.NewBorrowingService(
		c.BorrowingRepo,
		c.BookRepo,
		c.TxManager,
		c.Cache,
	)
	c.Reconciler = borrowingService.NewReconciler(c.BookRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.BulkImportHandler = bookHandler.NewBulkImportHandler(c.BulkImportService)
	c.BorrowingHandler = borrowingHandler.NewHandler(c.BorrowingService)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		} else {
			log.Info().Msg("✅ Database connections closed")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
