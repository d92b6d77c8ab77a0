package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/healthmap/internal/config"
	"github.com/sells-group/healthmap/internal/server"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the data and serve the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("open") {
			cfg.Server.OpenBrowser = serveOpen
		}

		return runServe(ctx, cfg)
	},
}

func runServe(ctx context.Context, c *config.Config) error {
	if err := c.Validate("serve"); err != nil {
		return err
	}

	ds, err := loadDataset(ctx, c)
	if err != nil {
		return err
	}
	ctrl, err := newController(ds, c)
	if err != nil {
		return err
	}

	srv, err := server.New(ctrl, server.Options{
		AllowedOrigins: c.Server.AllowedOrigins,
		CacheEntries:   c.Server.CacheEntries,
		CacheTTL:       time.Duration(c.Server.CacheTTLSecs) * time.Second,
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", c.Server.Port)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	g.Go(func() error {
		return server.ListenAndServe(gctx, addr, srv)
	})

	zap.L().Info("starting server", zap.Int("port", c.Server.Port))
	if c.Server.OpenBrowser {
		url := fmt.Sprintf("http://localhost:%d/", c.Server.Port)
		if err := browser.OpenURL(url); err != nil {
			zap.L().Warn("open browser", zap.String("url", url), zap.Error(err))
		}
	}

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the dashboard in the default browser")
	rootCmd.AddCommand(serveCmd)
}
