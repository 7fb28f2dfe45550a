package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/database"
	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
	"github.com/mantonx/cinelist/internal/server"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Cinelist exited with error", []logger.Field{logger.Err("error", err)})
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to read .env file", "error", err)
	}

	configPath := os.Getenv("CINELIST_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./cinelist.yaml"); err == nil {
			configPath = "./cinelist.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if configPath != "" {
		logger.Info("Configuration loaded", "path", configPath)
	} else {
		logger.Info("Using default configuration")
	}

	config.AddWatcher(func(oldConfig, newConfig *config.Config) {
		if oldConfig.Logging.Level != newConfig.Logging.Level {
			logger.Info("Log level changed", "from", oldConfig.Logging.Level, "to", newConfig.Logging.Level)
			logger.SetLevel(newConfig.Logging.Level)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		go func() {
			if err := config.Watch(ctx); err != nil {
				logger.Warn("Configuration watcher stopped", "error", err)
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}()

	catalogmodule.Register(cfg.TMDb)
	if err := modulemanager.LoadAll(db); err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	srv := server.New(cfg, db, modulemanager.Registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
