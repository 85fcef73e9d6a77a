package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/netlifystats"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics dashboard",
		Example: `  # Listen on :5000 with credentials from .env
  netlifystats serve

  # Listen on a different address
  netlifystats serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides HOST and PORT)")
	cmd.Flags().Duration("shutdown-timeout", 0, "Time allowed for in-flight requests on shutdown")
	v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	v.BindPFlag("shutdown_timeout", cmd.Flags().Lookup("shutdown-timeout"))
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := netlifystats.New(siteConfig(v), netlifystats.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown_timeout"))
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
