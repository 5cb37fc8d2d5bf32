package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	adapthttp "espresso/internal/adapter/http"
	"espresso/internal/adapter/memory"
	"espresso/internal/adapter/postgres"
	"espresso/internal/adapter/sqlite"
	"espresso/internal/app"
	"espresso/internal/config"
	"espresso/internal/domain"
	"espresso/internal/logging"
	"espresso/internal/metrics"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "espresso",
		Short:         "Espresso machine HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file; environment variables take precedence")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(config.New(), configPath)
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), c)
		},
	})
	return cmd
}

func printConfig(w io.Writer, c config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runServe(ctx context.Context, configPath string) error {
	c, err := config.Load(config.New(), configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	machine, err := app.NewMachine(c.Settings(), c.WaterSupplyIsMains)
	if err != nil {
		return fmt.Errorf("build machine: %w", err)
	}

	journal, closeJournal, err := openJournal(c)
	if err != nil {
		return fmt.Errorf("open %s journal: %w", c.Journal, err)
	}
	defer func() { _ = closeJournal() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := app.NewEspressoService(machine, journal, metrics.New(reg), log)

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           adapthttp.New(svc, reg, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", c.Addr),
			zap.String("journal", c.Journal),
			zap.Bool("mains", c.WaterSupplyIsMains),
			zap.String("status", svc.Status(ctx)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openJournal(c config.Config) (domain.EventRepository, func() error, error) {
	switch c.Journal {
	case config.JournalPostgres:
		db, err := postgres.Open(c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.JournalSQLite:
		db, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return memory.New(), func() error { return nil }, nil
	}
}
