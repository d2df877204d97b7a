package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "rideshare-backend/docs"
	"rideshare-backend/internal/common/cache"
	"rideshare-backend/internal/common/config"
	"rideshare-backend/internal/common/middleware"
	authHTTP "rideshare-backend/internal/features/auth/delivery/http"
	authService "rideshare-backend/internal/features/auth/service"
	userHTTP "rideshare-backend/internal/features/user/delivery/http"
	userRedis "rideshare-backend/internal/features/user/repository/redis"
	userService "rideshare-backend/internal/features/user/service"
	"rideshare-backend/internal/telegramauth"
)

const serviceName = "rideshare-backend"

// Deps are the process-wide collaborators the router is built from.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Redis    redis.UniversalClient
	Verifier *telegramauth.Verifier
}

// NewRouter builds the gin engine with middleware and routes wired.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(d.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{d.Config.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data", "X-Telegram-Init-Data", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	cacheSvc := cache.NewCacheService(d.Redis)
	userSvc := userService.NewUserService(userRedis.NewUserRepository(d.Redis), d.Logger)
	initData := authService.NewVerificationCache(d.Verifier, cacheSvc, d.Config.VerifyCacheTTL(), d.Logger)
	authSvc := authService.NewAuthService(d.Verifier, initData, userSvc, d.Logger)

	v1 := router.Group("/api/v1")
	authHTTP.NewAuthHandler(authSvc, d.Logger).RegisterRoutes(v1)

	authed := v1.Group("",
		middleware.TelegramInitDataMiddleware(initData, d.Logger),
		middleware.RequireAuth(d.Logger),
		middleware.AutoCreateUser(userSvc, d.Logger),
		middleware.CheckBanned(userSvc, d.Logger),
	)
	userHTTP.NewUserHandler(userSvc, d.Logger).RegisterRoutes(authed, d.Config.AdminIDs())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	registerProbes(router, d.Redis)

	return router
}

func registerProbes(router *gin.Engine, rdb redis.UniversalClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
