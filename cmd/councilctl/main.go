package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arnavshah/council-api-go/internal/config"
	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/council"
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/logging"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	db     *gorm.DB
	svc    *council.Service
	tokens *auth.TokenIssuer
	logger   *zap.Logger
	closeLog func()
	ctx      context.Context
}

var (
	envFile string
	app     *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "councilctl",
		Short: "Council duty maintenance tool",
		Long:  `Maintenance commands for the council duty database: cleanup, statistics, admin seeding and token minting.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load before reading configuration")

	rootCmd.AddCommand(cleanupOrphansCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(tokenCmd())

	err := rootCmd.Execute()
	if app != nil && app.closeLog != nil {
		app.closeLog()
	}
	if err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger and database
func initApp() error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		}
	}

	var err error
	app = &App{ctx: context.Background()}

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger, app.closeLog, err = logging.InitLogger(app.cfg.Env, app.cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.logger.Debug("Configuration loaded", zap.String("environment", app.cfg.Env))

	app.db, err = database.InitDB(app.cfg.DatabaseURL, app.cfg.DataPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	app.svc = council.NewService(app.db, app.logger)
	app.tokens = auth.NewTokenIssuer(app.cfg.JWTSecret, app.cfg.TokenTTL)
	return nil
}

// actingAdmin returns the admin that maintenance commands run as: the configured
// admin when its email is set, otherwise the earliest admin on record
func actingAdmin() (*database.User, error) {
	var admin database.User
	q := app.db.WithContext(app.ctx).Where("role = ?", models.RoleAdmin)
	if app.cfg.AdminEmail != "" {
		q = q.Where("email = ?", app.cfg.AdminEmail)
	}
	if err := q.Order("id ASC").First(&admin).Error; err != nil {
		return nil, fmt.Errorf("no admin user found (run seed-admin first): %w", err)
	}
	return &admin, nil
}
