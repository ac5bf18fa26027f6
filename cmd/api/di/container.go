package di

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"users-api/cmd/api/infrastructure"
	ginhandler "users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/adapter/repository"
	"users-api/internal/config"
	redisclient "users-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserRepo    *repository.UserRepository
	UserHandler *ginhandler.UserHandler
	RateLimiter *middleware.RateLimiter
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis backs the rate limiter only; the API never depends on it
	// when throttling is off.
	var rdb *redisclient.Client
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			_ = infrastructure.CloseDatabase(db)
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize repository
	repo := repository.NewUserRepository(db)

	// Initialize Gin handler
	userHandler := ginhandler.NewUserHandler(repo, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserRepo:    repo,
		UserHandler: userHandler,
		RateLimiter: rateLimiter,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
