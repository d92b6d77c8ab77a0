package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/config"
	"github.com/sells-group/healthmap/internal/dashboard"
	"github.com/sells-group/healthmap/internal/fetcher"
	"github.com/sells-group/healthmap/internal/healthdata"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/theme"
)

// loadDataset fetches and joins the configured inputs, bounded by
// data.timeout_secs when set.
func loadDataset(ctx context.Context, c *config.Config) (*healthdata.Dataset, error) {
	if c.Data.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Data.TimeoutSecs)*time.Second)
		defer cancel()
	}

	start := time.Now()
	ds, err := healthdata.Load(ctx, healthdata.Options{
		Boundaries: c.Data.Boundaries,
		Statistics: c.Data.Statistics,
		TempDir:    c.Data.TempDir,
		Client:     fetcher.New(fetcher.Options{TempDir: c.Data.TempDir}),
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset loaded",
		zap.Int("counties", ds.Geography.Len()),
		zap.Int("rows", ds.Rows),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

// newController builds the dashboard views from the dataset using the
// configured theme and initial metric.
func newController(ds *healthdata.Dataset, c *config.Config) (*dashboard.Controller, error) {
	opts := dashboard.DefaultOptions()

	if c.Dashboard.InitialMetric != "" {
		k, err := metric.Parse(c.Dashboard.InitialMetric)
		if err != nil {
			return nil, eris.Wrap(err, "dashboard.initial_metric")
		}
		opts.InitialMetric = k
	}

	th, err := theme.Load(c.Dashboard.ThemeFile)
	if err != nil {
		return nil, err
	}
	opts.Theme = th

	return dashboard.New(ds.Geography, ds.National, opts)
}
