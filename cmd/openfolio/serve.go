package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/api"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/chatbot"
	"github.com/openfolio/openfolio/internal/config"
	"github.com/openfolio/openfolio/internal/llm"
	"github.com/openfolio/openfolio/internal/llm/factory"
	"github.com/openfolio/openfolio/internal/logger"
	"github.com/openfolio/openfolio/internal/metrics"
	"github.com/openfolio/openfolio/internal/quote/yahoo"
	"github.com/openfolio/openfolio/internal/storage/archive"
	"github.com/openfolio/openfolio/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the openfolio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("starting openfolio server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	store, err := sqlite.Open(cfg.Storage.DSN, log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	quotes := yahoo.New(quoteOptions(cfg.Quotes)...)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	opts := []app.Option{}
	if reg != nil {
		opts = append(opts, app.WithMetrics(reg))
	}

	if cfg.Storage.Archive.Enabled {
		backend, err := archiveBackend(cfg.Storage.Archive)
		if err != nil {
			return fmt.Errorf("configuring report archive: %w", err)
		}
		opts = append(opts, app.WithSnapshotter(archive.NewSnapshotter(backend)))
		log.Info("report archiving enabled", zap.String("type", cfg.Storage.Archive.Type))
	}

	svc := app.NewService(store, quotes, log, opts...)

	var llmProvider llm.Provider
	if cfg.Chatbot.LLM.Provider != "" {
		llmProvider, err = factory.New(cfg.Chatbot.LLM)
		if err != nil {
			return fmt.Errorf("configuring LLM provider: %w", err)
		}
		log.Info("chatbot LLM fallback enabled", zap.String("provider", llmProvider.Name()))
	}
	bot := chatbot.New(quotes, llmProvider, log)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: metricsPath,
	}, svc, bot, reg, log)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down openfolio server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// quoteOptions maps quote settings onto provider options. A zero timeout
// keeps the provider's built-in default.
func quoteOptions(cfg config.QuotesConfig) []yahoo.Option {
	var opts []yahoo.Option
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, yahoo.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}))
	}
	return opts
}

func archiveBackend(cfg config.ArchiveConfig) (archive.Backend, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}
