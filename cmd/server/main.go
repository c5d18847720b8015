package main

import (
	"log"
	"os"

	"github.com/arnavshah/council-api-go/internal/config"
	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/handlers"
	"github.com/arnavshah/council-api-go/pkg/logging"
	"github.com/arnavshah/council-api-go/pkg/routes"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, closeLog, err := logging.InitLogger(cfg.Env, cfg.LogDir)
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer closeLog()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Fatal("Could not open database", zap.Error(err))
	}

	if cfg.AdminEmail != "" {
		created, err := auth.EnsureAdminExists(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("Could not seed admin", zap.Error(err))
		}
		if created {
			logger.Info("Default admin user created", zap.String("email", cfg.AdminEmail))
		}
	}

	h := handlers.New(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), logger)

	r := gin.New()
	r.Use(logging.RequestLogger(logger), gin.Recovery())
	routes.Setup(r, h)

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
