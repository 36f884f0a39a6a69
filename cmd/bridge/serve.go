package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/cobra"

	"github.com/balancebridge/bridge/config"
	"github.com/balancebridge/bridge/protocol"
	"github.com/balancebridge/bridge/relay"
	transporthttp "github.com/balancebridge/bridge/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge HTTP daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		svc, pool, err := buildService(cfg, true)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Debug {
			if pairing, err := svc.Pairing(ctx); err == nil {
				since := nostr.Now()
				go relay.RunTap(ctx, pool, nostr.Filter{
					Kinds:   []int{protocol.ResponseKind},
					Authors: []string{pairing.ServerPublicKey},
					Since:   &since,
				})
			}
		}

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: transporthttp.SetupRouter(svc),
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "addr", cfg.ListenAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return svc.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
