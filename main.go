package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gamepass-proxy/internal/api"
	"gamepass-proxy/internal/config"
	gamepassService "gamepass-proxy/internal/services/gamepass"
	usersService "gamepass-proxy/internal/services/users"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Configure logging
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Initialize services
	users := usersService.NewUsersService(cfg.UsersAPIURL, cfg.RequestTimeout, cfg.ResolveCacheTTL)
	newPacer := func() gamepassService.Pacer {
		return gamepassService.NewIntervalPacer(cfg.PaceInterval)
	}
	gamepasses := gamepassService.NewGamepassService(cfg.GamePassAPIURL, cfg.EconomyAPIURL, cfg.RequestTimeout, cfg.PageSize, newPacer)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API routes
	api.SetupRoutes(r, users, gamepasses)

	logrus.Infof("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
