package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Veraticus/finsense/internal/api"
	"github.com/Veraticus/finsense/internal/certs"
	"github.com/Veraticus/finsense/internal/config"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/metrics"
	"github.com/Veraticus/finsense/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review API",
		Long: `Serve the JSON review API under /api/v1, a health check at /health and
Prometheus metrics at /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: "+config.DefaultServerAddr+")")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	m := metrics.New()
	eng, err := initEngine(ctx, store, engine.WithObserver(m))
	if err != nil {
		return err
	}

	handler := api.NewHandler(eng, store, session.NewManager(store, eng), store)
	router := api.NewRouter(api.RouterConfig{
		Handler: handler,
		Metrics: m,
		Logger:  slog.Default(),
	})

	addr := settings.ServerAddr
	srv := api.NewServer(addr, router)

	if settings.ServerTLS {
		host, _, _ := net.SplitHostPort(addr)
		tlsConfig, err := certs.NewStore(settings.CertDir, host).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS: %w", err)
		}
		srv.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving review API", "addr", addr, "tls", settings.ServerTLS)

		var err error
		if settings.ServerTLS {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down review API")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
