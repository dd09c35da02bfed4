package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendmcp/internal/config"
	"trendmcp/internal/dispatch"
	"trendmcp/internal/handlers"
	"trendmcp/internal/instrumentation"
	"trendmcp/internal/journal"
	"trendmcp/internal/mcp"
	"trendmcp/internal/query"
	"trendmcp/internal/upstream"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("mcp_service_starting",
		"version", Version,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
		"upstream_timeout_ms", cfg.UpstreamTimeoutMS,
		"journal_enabled", cfg.JournalEnabled(),
	)

	// Endpoint table
	defs, err := dispatch.LoadEndpoints(cfg.EndpointsFile)
	if err != nil {
		logger.Error("failed to load endpoint table", "error", err)
		os.Exit(1)
	}
	registry, err := dispatch.NewRegistry(cfg.APIBaseURL, defs)
	if err != nil {
		logger.Error("invalid endpoint table", "error", err)
		os.Exit(1)
	}

	logger.Info("endpoint_table_loaded", "endpoints", registry.Len())

	var metrics *instrumentation.Metrics
	var metricsHandler http.Handler
	dispatchOpts := []dispatch.Option{}
	if cfg.MetricsEnabled {
		metrics = instrumentation.NewMetrics(prometheus.DefaultRegisterer)
		metricsHandler = promhttp.Handler()
		dispatchOpts = append(dispatchOpts, dispatch.WithRecorder(metrics))
	}

	// Invocation journal
	var invocations mcp.Journal = journal.Noop{}
	if cfg.JournalEnabled() {
		publisher, err := journal.New(cfg.RedisURL, cfg.RedisPassword, cfg.JournalStream, cfg.JournalMaxLength, logger)
		if err != nil {
			logger.Error("failed to create journal publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		invocations = publisher

		logger.Info("journal_publisher_initialized", "stream", cfg.JournalStream)
	}

	client := upstream.NewClient(cfg.UpstreamTimeout(), logger)
	creds := query.Credentials{Token: cfg.APIToken, DisplayName: cfg.APIDisplayName}
	dispatcher := dispatch.New(registry, client, creds, logger, dispatchOpts...)

	executor := mcp.NewToolExecutor(dispatcher, invocations, logger)
	invoker, err := mcp.NewToolInvoker(executor, registry)
	if err != nil {
		logger.Error("failed to register tools", "error", err)
		os.Exit(1)
	}

	var rpcMetrics handlers.RPCRecorder
	if metrics != nil {
		rpcMetrics = metrics
	}
	mcpHandler := handlers.NewMCPInvokeHandler(
		invoker,
		mcp.Implementation{Name: "trendmcp", Version: Version},
		cfg.RequestTimeout(),
		rpcMetrics,
		logger,
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		MCP:     mcpHandler,
		Health:  executor,
		Metrics: metricsHandler,
		Timeout: cfg.RequestTimeout(),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
	}

	go func() {
		logger.Info("mcp_server_listening", "port", cfg.Port, "status", "healthy")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("shutdown_signal_received", "signal", sig.String())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	logger.Info("mcp_service_stopped")
}
