// Package dashboard coordinates the map and the two bar charts. A single
// event loop owns the selection and every view; callers only enqueue events
// and wait for the result.
package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/chart"
	"github.com/sells-group/healthmap/internal/healthdata"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/theme"
)

// Options configures the views.
type Options struct {
	Map           chart.MapConfig
	Barchart      chart.BarConfig
	Grouped       chart.GroupedConfig
	Theme         theme.Theme
	InitialMetric metric.Key
}

// DefaultOptions returns the standard layouts, the default theme and high
// cholesterol as the initial metric.
func DefaultOptions() Options {
	return Options{
		Map:           chart.DefaultMapConfig(),
		Barchart:      chart.DefaultBarConfig(),
		Grouped:       chart.DefaultGroupedConfig(),
		Theme:         theme.Default(),
		InitialMetric: metric.HighCholesterol,
	}
}

type request struct {
	ev    Event
	reply chan response
}

type response struct {
	res Result
	err error
}

// Controller holds the three views and the selection. Only the loop started
// by Run touches them.
type Controller struct {
	geo      *healthdata.Geography
	national metric.Set

	choropleth *chart.ChoroplethMap
	barchart   *chart.Barchart
	grouped    *chart.GroupedBarchart

	sel     Selection
	hovered string
	version uint64
	eventID string // event being handled, for callback logs

	requests chan request
	done     chan struct{}
}

// New builds the views and wires the cross-view callbacks.
func New(geo *healthdata.Geography, national metric.Set, opts Options) (*Controller, error) {
	if !opts.InitialMetric.Valid() {
		return nil, eris.Wrapf(ErrUnknownMetric, "dashboard: initial metric %d", int(opts.InitialMetric))
	}

	choropleth, err := chart.NewChoroplethMap(opts.Map, geo, opts.InitialMetric, opts.Theme)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: build map")
	}

	c := &Controller{
		geo:        geo,
		national:   national,
		choropleth: choropleth,
		barchart:   chart.NewBarchart(opts.Barchart, opts.Theme),
		grouped:    chart.NewGroupedBarchart(opts.Grouped, national, opts.Theme),
		sel:        Selection{Metric: opts.InitialMetric},
		requests:   make(chan request),
		done:       make(chan struct{}),
	}

	// The simple bar chart always shows the national averages.
	c.barchart.Render(national)

	// A county click drives the comparison chart.
	c.choropleth.OnSelect(func(e chart.SelectEvent) {
		c.sel.County = e.FIPS
		c.sel.Comparison = true
		c.grouped.UpdateCountyData(e.Metrics, e.Name)
	})
	// The map reports the county under the pointer.
	c.choropleth.OnHover(func(e chart.HoverEvent) {
		c.hovered = e.FIPS
		zap.L().Debug("dashboard: county hovered",
			zap.String("event_id", c.eventID),
			zap.String("fips", e.FIPS),
			zap.String("tooltip", e.Tooltip.Body),
		)
	})
	// A national bar click drives the map metric.
	c.grouped.OnSelect(func(e chart.BarSelectEvent) {
		if err := c.setMetric(e.Metric); err != nil {
			zap.L().Warn("dashboard: bar select", zap.Error(err))
		}
	})

	return c, nil
}

// Run processes events until ctx is done. It must be called exactly once.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	log := zap.L().With(zap.String("component", "dashboard"))
	log.Info("event loop started", zap.Int("counties", c.geo.Len()))

	for {
		select {
		case <-ctx.Done():
			log.Info("event loop stopped")
			return nil
		case req := <-c.requests:
			res, err := c.handle(req.ev)
			if err != nil {
				log.Debug("event rejected",
					zap.String("event_id", req.ev.ID),
					zap.Stringer("kind", req.ev.Kind),
					zap.Error(err),
				)
			} else if req.ev.Kind.mutates() {
				log.Debug("event handled",
					zap.String("event_id", req.ev.ID),
					zap.Stringer("kind", req.ev.Kind),
					zap.Uint64("version", res.Version),
				)
			}
			// reply is buffered, so an abandoned Dispatch never blocks the loop.
			req.reply <- response{res: res, err: err}
		}
	}
}

// Dispatch enqueues ev and waits for the loop to handle it.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Result, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	req := request{ev: ev, reply: make(chan response, 1)}

	select {
	case c.requests <- req:
	case <-c.done:
		return Result{}, ErrStopped
	case <-ctx.Done():
		return Result{}, eris.Wrap(ctx.Err(), "dashboard: dispatch")
	}

	select {
	case resp := <-req.reply:
		return resp.res, resp.err
	case <-ctx.Done():
		return Result{}, eris.Wrap(ctx.Err(), "dashboard: await result")
	}
}

func (c *Controller) handle(ev Event) (Result, error) {
	res := Result{EventID: ev.ID}
	c.eventID = ev.ID

	switch ev.Kind {
	case SetMetric:
		if err := c.setMetric(ev.Metric); err != nil {
			return res, err
		}
		res.Handled = true

	case SelectCounty:
		if !c.choropleth.Click(ev.County) {
			return res, eris.Wrapf(ErrUnknownCounty, "dashboard: select %q", ev.County)
		}
		res.Handled = true

	case ClickBar:
		if !ev.Metric.Valid() {
			return res, eris.Wrapf(ErrUnknownMetric, "dashboard: click bar %d", int(ev.Metric))
		}
		res.Handled = c.grouped.Click(ev.Metric, ev.Series)

	case HoverCounty:
		tip, ok := c.choropleth.Hover(ev.County, ev.X, ev.Y)
		if !ok {
			return res, eris.Wrapf(ErrUnknownCounty, "dashboard: hover %q", ev.County)
		}
		res.Tooltip = &tip
		res.Handled = true

	case LeaveCounty:
		c.choropleth.Leave(ev.County)
		if c.hovered == ev.County {
			c.hovered = ""
		}
		res.Handled = true

	case HoverBar:
		if !ev.Metric.Valid() {
			return res, eris.Wrapf(ErrUnknownMetric, "dashboard: hover bar %d", int(ev.Metric))
		}
		var (
			tip chart.Tooltip
			ok  bool
		)
		switch ev.Target {
		case TargetBarchart:
			tip, ok = c.barchart.Hover(ev.Metric)
		case TargetGrouped, "":
			tip, ok = c.grouped.Hover(ev.Metric, ev.Series)
		default:
			return res, eris.Wrapf(ErrUnknownEvent, "dashboard: bar target %q", ev.Target)
		}
		if ok {
			res.Tooltip = &tip
		}
		res.Handled = ok

	case LeaveBar:
		c.barchart.Leave()
		c.grouped.Leave()
		res.Handled = true

	case Reset:
		c.reset()
		res.Handled = true

	case State:

	case Snapshot:
		res.Views = &Views{
			Map:      c.choropleth.Render(),
			Barchart: c.barchart.Render(c.national),
			Grouped:  c.grouped.Render(),
		}

	default:
		return res, eris.Wrapf(ErrUnknownEvent, "dashboard: kind %d", int(ev.Kind))
	}

	if ev.Kind.mutates() && res.Handled {
		c.version++
	}
	res.Version = c.version
	res.Selection = c.sel
	res.Mode = c.grouped.Mode()
	res.Title = c.grouped.Title()
	res.Hovered = c.hovered
	return res, nil
}

func (c *Controller) setMetric(k metric.Key) error {
	if !k.Valid() {
		return eris.Wrapf(ErrUnknownMetric, "dashboard: metric %d", int(k))
	}
	if err := c.choropleth.SetActiveMetric(k); err != nil {
		return err
	}
	c.sel.Metric = k
	return nil
}

// reset leaves comparison mode and clears the map highlight in one step.
func (c *Controller) reset() {
	c.grouped.Reset()
	c.choropleth.ClearSelection()
	c.sel.County = ""
	c.sel.Comparison = false
}
