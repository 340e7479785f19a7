package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fittrack-dashboard/charts"
	"fittrack-dashboard/config"
	"fittrack-dashboard/dashboard"
	"fittrack-dashboard/handlers"
	"fittrack-dashboard/metrics"
	"fittrack-dashboard/models"
	"fittrack-dashboard/tmpl"
)

var (
	envFile  string
	port     string
	logLevel string
)

// rootCmd serves the dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "fittrack",
	Short:        "FitTrack personal wellness dashboard",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Long: `Serves the dashboard pages, the JSON API, /metrics and /healthz.

Settings come from the environment, after the optional --env-file.
Flags override the matching variables.`,
	RunE: runServe,
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default dashboard state as JSON",
	RunE:  runDefaults,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd, defaultsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("grace", cfg.ShutdownPeriod))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer assembles the dashboard. The chart library probe runs in the
// background under ctx; pages use the fallback bars until it succeeds.
func newServer(ctx context.Context, cfg config.Config, log *zap.Logger, reg *prometheus.Registry) (*http.Server, error) {
	defaults, err := models.NewDefaults(time.Now(), dashboard.NewID)
	if err != nil {
		return nil, err
	}
	templates, err := tmpl.Load()
	if err != nil {
		return nil, err
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	selector := charts.NewSelector(log.Named("charts"))
	selector.Start(ctx, &http.Client{Timeout: cfg.ChartTimeout}, cfg.ChartURL, cfg.ChartTimeout)

	sessions := dashboard.NewRegistry(dashboard.RegistryConfig{
		Capacity:   cfg.MaxSessions,
		IdleTTL:    cfg.SessionTTL,
		Quota:      cfg.StorageQuota,
		StorageKey: cfg.StorageKey,
		Defaults:   defaults,
		Session:    dashboard.Options{Log: log.Named("session"), Metrics: m},
	})

	d := &handlers.Deps{
		Sessions:  sessions,
		Templates: templates,
		Charts:    selector,
		Log:       log.Named("http"),
		Metrics:   m,
		Gatherer:  reg,
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewHandler(cfg, d),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func runDefaults(cmd *cobra.Command, _ []string) error {
	defaults, err := models.NewDefaults(time.Now(), dashboard.NewID)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(defaults.State(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return nil
}
