package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/telhawk-systems/telhawk-relay/internal/config"
	"github.com/telhawk-systems/telhawk-relay/internal/engine"
	"github.com/telhawk-systems/telhawk-relay/internal/handlers"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
	"github.com/telhawk-systems/telhawk-relay/internal/server"
)

func newRunCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured routes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			logging.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}
}

// run hosts the routes and the HTTP server until ctx ends or one of them fails.
func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	deps, err := newDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	defs, err := cfg.Definitions()
	if err != nil {
		return err
	}
	routes, err := route.CompileAll(defs, deps.registry)
	if err != nil {
		return err
	}

	eng := engine.New(logger, routes...)
	defer eng.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := eng.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return eng.Stop()
	})

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, server.NewRouter(handlers.NewRouteHandler(eng)), logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	logger.Info("Relay started", "routes", len(routes), "http", cfg.Server.Enabled)
	err = g.Wait()
	logger.Info("Relay stopped")
	return err
}
