package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"users-api/api/openapi"
	"users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/config"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. rateLimiter may be nil when throttling is disabled.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
	env string,
) *gin.Engine {
	if env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware; recovery first so everything below is covered
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	if rateLimiter != nil {
		router.Use(rateLimiter.Handler())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "users-api",
		})
	})

	// OpenAPI document and interactive UI
	router.GET("/openapi/users.swagger.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapi.UsersSpec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/openapi/users.swagger.json"),
	)))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
