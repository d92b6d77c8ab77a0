package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/chart"
	"github.com/sells-group/healthmap/internal/dashboard"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/svg"
)

const (
	viewMap      = "map"
	viewBarchart = "barchart"
	viewGrouped  = "grouped"
)

var errBadRequest = eris.New("server: bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps controller and parse errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrUnknownCounty):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownMetric),
		errors.Is(err, dashboard.ErrUnknownEvent),
		errors.Is(err, metric.ErrUnknown),
		errors.Is(err, chart.ErrUnknownSeries),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("server: request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ev dashboard.Event) {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		ev.ID = id
	}
	res, err := s.ctrl.Dispatch(r.Context(), ev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Dashboard-Version", strconv.FormatUint(res.Version, 10))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.State})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleSetMetric(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Metric string `json:"metric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, eris.Wrap(errBadRequest, "server: invalid request body"))
		return
	}
	k, err := metric.Parse(req.Metric)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.SetMetric, Metric: k})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.Reset})
}

func (s *Server) handleSelectCounty(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.SelectCounty, County: chi.URLParam(r, "fips")})
}

func (s *Server) handleHoverCounty(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		writeError(w, r, err)
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, dashboard.Event{
		Kind:   dashboard.HoverCounty,
		County: chi.URLParam(r, "fips"),
		X:      x,
		Y:      y,
	})
}

func (s *Server) handleLeaveCounty(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.LeaveCounty, County: chi.URLParam(r, "fips")})
}

// barEvent parses the metric path parameter and the series query parameter.
func barEvent(r *http.Request, kind dashboard.EventKind) (dashboard.Event, error) {
	k, err := metric.Parse(chi.URLParam(r, "metric"))
	if err != nil {
		return dashboard.Event{}, err
	}
	series, err := chart.ParseSeries(r.URL.Query().Get("series"))
	if err != nil {
		return dashboard.Event{}, err
	}
	return dashboard.Event{
		Kind:   kind,
		Metric: k,
		Series: series,
		Target: r.URL.Query().Get("chart"),
	}, nil
}

func (s *Server) handleClickBar(w http.ResponseWriter, r *http.Request) {
	ev, err := barEvent(r, dashboard.ClickBar)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, ev)
}

func (s *Server) handleHoverBar(w http.ResponseWriter, r *http.Request) {
	ev, err := barEvent(r, dashboard.HoverBar)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, ev)
}

func (s *Server) handleLeaveBar(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, dashboard.Event{Kind: dashboard.LeaveBar})
}

// handleView serves one view from the render cache, rendering all three
// views on a miss.
func (s *Server) handleView(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.ctrl.Dispatch(r.Context(), dashboard.Event{Kind: dashboard.State})
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		if cached := s.cache.Get(name, state.Version); cached != nil {
			w.Header().Set("X-Cache", "hit")
			w.Header().Set("X-Dashboard-Version", strconv.FormatUint(state.Version, 10))
			_, _ = w.Write(cached)
			return
		}

		snap, err := s.ctrl.Dispatch(r.Context(), dashboard.Event{Kind: dashboard.Snapshot})
		if err != nil {
			writeError(w, r, err)
			return
		}
		if snap.Views == nil {
			writeError(w, r, eris.New("server: snapshot returned no views"))
			return
		}

		var out []byte
		for view, root := range map[string]*svg.Element{
			viewMap:      snap.Views.Map,
			viewBarchart: snap.Views.Barchart,
			viewGrouped:  snap.Views.Grouped,
		} {
			var buf bytes.Buffer
			if _, err := root.WriteTo(&buf); err != nil {
				writeError(w, r, err)
				return
			}
			s.cache.Put(view, snap.Version, buf.Bytes())
			if view == name {
				out = buf.Bytes()
			}
		}

		w.Header().Set("X-Cache", "miss")
		w.Header().Set("X-Dashboard-Version", strconv.FormatUint(snap.Version, 10))
		_, _ = w.Write(out)
	}
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(errBadRequest, "server: query parameter %s=%q", name, raw)
	}
	return v, nil
}
