package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/dashboard"
	"github.com/sells-group/healthmap/internal/metric"
)

//go:embed templates/index.html
var templates embed.FS

type metricOption struct {
	Field    string
	Label    string
	Selected bool
}

type pageData struct {
	Title   string
	Metrics []metricOption
}

func parsePage() (*template.Template, error) {
	t, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, eris.Wrap(err, "server: parse page template")
	}
	return t, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state, err := s.ctrl.Dispatch(r.Context(), dashboard.Event{Kind: dashboard.State})
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := pageData{Title: "County Health Dashboard"}
	for _, k := range metric.Keys {
		data.Metrics = append(data.Metrics, metricOption{
			Field:    k.Field(),
			Label:    k.Label(),
			Selected: k == state.Selection.Metric,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		zap.L().Error("server: render page", zap.Error(err))
	}
}
