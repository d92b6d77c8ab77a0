package healthdata

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/healthmap/internal/boundary"
	"github.com/sells-group/healthmap/internal/fetcher"
	"github.com/sells-group/healthmap/internal/metric"
)

// Options names the two inputs and how to fetch them.
type Options struct {
	Boundaries string
	Statistics string
	TempDir    string
	Client     *fetcher.Client
}

// Dataset is everything the dashboard needs, built once at startup.
type Dataset struct {
	Geography *Geography
	National  metric.Set
	Rows      int
}

// Load fetches the boundaries and statistics concurrently, joins them and
// computes the national averages. A fetch or parse failure is a *LoadError;
// a join with no matches is an *IntegrityError.
func Load(ctx context.Context, opts Options) (*Dataset, error) {
	client := opts.Client
	if client == nil {
		client = fetcher.New(fetcher.Options{TempDir: opts.TempDir})
	}

	var (
		set  *boundary.Set
		rows []Row
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := boundary.Load(gctx, client, opts.Boundaries, opts.TempDir)
		if err != nil {
			return &LoadError{Resource: "boundaries", Location: opts.Boundaries, Err: err}
		}
		set = s
		return nil
	})
	g.Go(func() error {
		r, err := ReadStatistics(gctx, client, opts.Statistics)
		if err != nil {
			return &LoadError{Resource: "statistics", Location: opts.Statistics, Err: err}
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	geo, err := Join(set.Counties, rows)
	if err != nil {
		return nil, err
	}
	geo.StateBorders = set.StateBorders

	national := NationalAverages(rows)
	for _, k := range metric.Keys {
		r := national.Get(k)
		zap.L().Debug("healthdata: national average",
			zap.String("metric", k.Field()),
			zap.Float64("value", r.Value),
			zap.Bool("valid", r.Valid),
		)
	}

	return &Dataset{Geography: geo, National: national, Rows: len(rows)}, nil
}
