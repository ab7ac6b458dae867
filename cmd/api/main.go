package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"

	"github.com/Mutu-s/MonFair-sub001/internal/chain"
	"github.com/Mutu-s/MonFair-sub001/internal/config"
	"github.com/Mutu-s/MonFair-sub001/internal/handlers"
	"github.com/Mutu-s/MonFair-sub001/internal/middleware"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	i := do.New()
	do.ProvideValue(i, cfg)
	do.Provide(i, provideLogger)
	if cfg.HasProvider() {
		do.Provide(i, provideChainClient)
	}
	do.Provide(i, provideVerifier)
	do.Provide(i, provideRedis)
	do.Provide(i, provideJWT)
	do.Provide(i, provideWebSocket)
	do.Provide(i, provideVerifyHandler)

	log := do.MustInvoke[*logrus.Logger](i)

	verifyHandler, err := do.Invoke[*handlers.VerifyHandler](i)
	if err != nil {
		log.Fatalf("Failed to build handlers: %v", err)
	}

	redisService := do.MustInvoke[*services.RedisService](i)
	defer redisService.Close()
	if cfg.HasProvider() {
		defer do.MustInvoke[*chain.Client](i).Close()
	}

	wsHandler := do.MustInvoke[*handlers.WebSocketHandler](i)
	defer wsHandler.Close()

	jwtService := do.MustInvoke[*services.JWTService](i)
	if !jwtService.Enabled() {
		log.Warn("JWT_SECRET not set, all callers are anonymous")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"chain_enabled": cfg.HasProvider(),
		})
	})

	api := router.Group("/api")
	api.Use(middleware.OptionalAuth(jwtService))
	{
		api.GET("/ws", wsHandler.HandleWebSocket)

		verifyLimit := middleware.RateLimitMiddleware(redisService, "verify", cfg.VerifyRateLimit, time.Minute)
		verifyHandler.RegisterRoutes(api, verifyLimit)
	}

	log.WithFields(logrus.Fields{
		"port":           cfg.Port,
		"block_interval": cfg.BlockInterval,
	}).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
