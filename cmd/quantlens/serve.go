package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantlens/quantlens/internal/api"
	"github.com/quantlens/quantlens/internal/archive"
	"github.com/quantlens/quantlens/internal/config"
	"github.com/quantlens/quantlens/internal/engine"
	"github.com/quantlens/quantlens/internal/insight"
	"github.com/quantlens/quantlens/internal/llm/factory"
	"github.com/quantlens/quantlens/internal/logger"
	"github.com/quantlens/quantlens/internal/metrics"
	"github.com/quantlens/quantlens/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the QuantLens server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log.Info("starting QuantLens server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("engine", cfg.Engine.BaseURL),
	)

	reg := metrics.NewRegistry()

	client := engine.New(cfg.Engine.BaseURL, cfg.Engine.Timeout, log)
	client.SetObserver(reg)

	viewer := view.NewViewer(client, log)
	viewer.OnStale(func(id int64) {
		reg.RecordStaleDiscarded()
	})

	deps := api.Deps{
		Engine:    client,
		WebEngine: client,
		Viewer:    viewer,
		Metrics:   reg,
	}

	if cfg.Archive.Enabled {
		store, err := archive.New(cfg.Archive)
		if err != nil {
			return fmt.Errorf("creating archive store: %w", err)
		}
		deps.Archiver = store
		log.Info("report archive enabled", zap.String("type", cfg.Archive.Type))
	}

	if cfg.Insight.Enabled {
		provider, err := factory.New(cfg.Insight)
		if err != nil {
			return fmt.Errorf("creating insight provider: %w", err)
		}
		deps.Summarizer = insight.New(provider, log)
		log.Info("insight summaries enabled", zap.String("provider", provider.Name()))
	}

	server, err := api.NewServer(*cfg, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down QuantLens server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// loadConfig loads and validates the config file, falling back to defaults
// when no file was given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
