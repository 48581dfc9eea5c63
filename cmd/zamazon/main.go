// Command zamazon is the terminal client for the Zamazon marketplace.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/zamazon/internal/buildinfo"
	"github.com/dmitrijs2005/zamazon/internal/client/cli"
	"github.com/dmitrijs2005/zamazon/internal/client/client"
	"github.com/dmitrijs2005/zamazon/internal/client/config"
	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/metrics"
	"github.com/dmitrijs2005/zamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/storage"
	"github.com/dmitrijs2005/zamazon/internal/filex"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:           "zamazon",
		Short:         "Zamazon marketplace terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, metricsAddr)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.Print(cmd.OutOrStdout())
		},
	})

	return cmd
}

func run(ctx context.Context, cfg *config.Config, metricsAddr string) error {
	format.DisableColor(cfg.NoColor)

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	statePath, err := filex.ExpandHome(cfg.StateDBPath)
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(statePath); err != nil {
		return err
	}
	db, err := storage.Open(ctx, statePath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer db.Close()

	repo := metadata.NewSQLiteRepository(db)
	store := session.Load(ctx, repo, logger)

	cred, err := client.NewCookieCredential(ctx, cfg.BackendURL, repo, logger)
	if err != nil {
		return fmt.Errorf("restore credential: %w", err)
	}
	logger.Debug(ctx, "credential restored", "cookies", cred.Names())

	collector := metrics.NewCollector(prometheus.NewRegistry())
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: collector.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	api, err := client.New(client.Options{
		BaseURL:           cfg.BackendURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Credential:        cred,
		Logger:            logger,
		Observer:          collector,
	})
	if err != nil {
		return err
	}
	if cfg.ReconcileUnauthorized {
		services.ReconcileUnauthorized(api, store, logger)
	}

	app := cli.NewApp(cli.Deps{
		API:     api,
		Auth:    services.NewAuthService(api, store, logger),
		Session: store,
		Metrics: collector,
		Logger:  logger,
	})
	return app.Run(ctx)
}
