package handler

import (
	"net/http"

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

var (
	r       *gin.Engine
	initErr error
)

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}

	// Serverless functions have no persistent disk, so log to stdout only.
	// Without a file there is nothing to close.
	logger, _, err := logging.InitLogger(cfg.Env, "")
	if err != nil {
		initErr = err
		return
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Error("Could not open database", zap.Error(err))
		initErr = err
		return
	}
	if cfg.AdminEmail != "" {
		if _, err := auth.EnsureAdminExists(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("Could not seed admin", zap.Error(err))
		}
	}

	h := handlers.New(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), logger)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(logging.RequestLogger(logger), gin.Recovery())
	routes.Setup(r, h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}
