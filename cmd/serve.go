package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resolution HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := initEngine()
		if err != nil {
			return err
		}
		v, reader := initVerifier(cfg)

		opts := []server.Option{
			server.WithVerifier(v, reader),
			server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		}
		st, err := initStore(ctx)
		if err != nil {
			zap.L().Warn("result store unavailable, run routes disabled", zap.Error(err))
		} else {
			defer st.Close() //nolint:errcheck
			opts = append(opts, server.WithStore(st))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		return server.New(engine, opts...).ListenAndServe(ctx, fmt.Sprintf(":%d", port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
