package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Deployment environments recognized by the service.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Supported database engines.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	DB        DatabaseConfig
	Logger    LoggerConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPHost               string `mapstructure:"HTTP_HOST"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// HTTPAddr returns the listen address for the HTTP server.
func (c *AppConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.HTTPHost, c.HTTPPort)
}

// ShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Engine                 string `mapstructure:"DB_ENGINE"`
	Path                   string `mapstructure:"DB_PATH"`
	Host                   string `mapstructure:"DB_HOST"`
	Port                   string `mapstructure:"DB_PORT"`
	User                   string `mapstructure:"DB_USER"`
	Password               string `mapstructure:"DB_PASSWORD"`
	Name                   string `mapstructure:"DB_NAME"`
	SSLMode                string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	ConnMaxIdleMinutes     int    `mapstructure:"DB_CONN_MAX_IDLE_MINUTES"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// RateLimitConfig holds configuration for the request rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
}

// RedisConfig holds configuration for Redis (used by the rate limiter)
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	// Manually populate config from viper
	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPHost = v.GetString("HTTP_HOST")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.DB.Engine = resolveEngine(config.App.Env, v.GetString("DB_ENGINE"))
	config.DB.Path = v.GetString("DB_PATH")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetimeMinutes = v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")
	config.DB.ConnMaxIdleMinutes = v.GetInt("DB_CONN_MAX_IDLE_MINUTES")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("DB_ENGINE", "")
	v.SetDefault("DB_PATH", "users.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "users")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	v.SetDefault("DB_CONN_MAX_IDLE_MINUTES", 5)

	// Logger defaults
	if v.GetString("APP_ENV") == EnvProduction {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "users-api")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10.0)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 20)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
}

// resolveEngine picks the database engine for the deployment environment.
// An explicit DB_ENGINE always wins; otherwise development runs on an
// embedded sqlite file, staging on MySQL and production on PostgreSQL.
func resolveEngine(env, override string) string {
	if override != "" {
		return override
	}
	switch env {
	case EnvProduction:
		return EnginePostgres
	case EnvStaging:
		return EngineMySQL
	default:
		return EngineSQLite
	}
}

// Validate checks the configuration for values that cannot be defaulted away.
func (c *Config) Validate() error {
	switch c.DB.Engine {
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return fmt.Errorf("unsupported database engine %q", c.DB.Engine)
	}
	if c.App.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}
	if c.DB.Engine == EngineSQLite && c.DB.Path == "" {
		return fmt.Errorf("DB_PATH must not be empty for the sqlite engine")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be positive")
		}
		if c.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("RATE_LIMIT_BURST_CAPACITY must be positive")
		}
	}
	return nil
}

// DSN returns the Data Source Name for the configured engine.
// Empty ports fall back to the engine's conventional default.
func (c *DatabaseConfig) DSN() string {
	switch c.Engine {
	case EngineMySQL:
		port := c.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, port, c.Name)
	case EngineSQLite:
		return c.Path
	default:
		port := c.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, port, c.SSLMode)
	}
}

// ConnMaxLifetime returns the maximum connection lifetime as a duration.
func (c *DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// ConnMaxIdleTime returns the maximum connection idle time as a duration.
func (c *DatabaseConfig) ConnMaxIdleTime() time.Duration {
	return time.Duration(c.ConnMaxIdleMinutes) * time.Minute
}
