package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.alis.build/alog"

	"github.com/ukaji3/xltutor-go/internal/config"
	"github.com/ukaji3/xltutor-go/internal/content"
	"github.com/ukaji3/xltutor-go/internal/handler"
	"github.com/ukaji3/xltutor-go/internal/repository"
	"github.com/ukaji3/xltutor-go/internal/service"
)

var (
	envFile  string
	port     string
	dbDriver string
	dbDSN    string
	logLevel string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tutor HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&envFile, "env", ".env", "Optional .env file")
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&dbDriver, "db-driver", "", "Progress store: memory, sqlite3 or postgres (overrides DB_DRIVER)")
	cmd.Flags().StringVar(&dbDSN, "db-dsn", "", "Progress store DSN (overrides DB_DSN)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warning or error (overrides LOG_LEVEL)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyLogLevel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lib, err := content.Load()
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	svc := service.NewTutorService(lib, store, cfg.MaxDepth)
	h := handler.NewTutorHandler(svc)

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(h)

	alog.Infof(ctx, "xltutor API listening on :%s (store: %s, %d challenges)", cfg.Port, cfg.DBDriver, len(lib.Challenges()))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}
	if port != "" {
		cfg.Port = port
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbDSN != "" {
		cfg.DBDSN = dbDSN
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func openStore(ctx context.Context, cfg config.Config) (repository.ProgressStore, error) {
	if cfg.DBDriver == config.DriverMemory {
		return repository.NewMemoryStore(), nil
	}
	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}
	return store, nil
}
