// Package theme holds the dashboard palette and titles, optionally read from
// a YAML file.
package theme

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/healthmap/internal/metric"
)

// Theme configures chart colors and default titles.
type Theme struct {
	// Accents holds each metric's accent color, indexed by key. The map
	// scale runs from Low to the accent; bar charts fill categories with it.
	Accents       [metric.Count]string `yaml:"-"`
	Low           string               `yaml:"low"`
	NationalColor string               `yaml:"national_color"`
	CountyColor   string               `yaml:"county_color"`
	StripeColor   string               `yaml:"stripe_color"`
	BorderColor   string               `yaml:"border_color"`
	GroupedTitle  string               `yaml:"grouped_title"`
}

// Default returns the built-in palette.
func Default() Theme {
	return Theme{
		Accents: [metric.Count]string{
			metric.HighBloodPressure:    "#B6995A",
			metric.CoronaryHeartDisease: "#275031",
			metric.Stroke:               "#E41134",
			metric.HighCholesterol:      "#00265B",
		},
		Low:           "#fff",
		NationalColor: "#74a9cf",
		CountyColor:   "#ef6548",
		StripeColor:   "#999",
		BorderColor:   "#fff",
		GroupedTitle:  "Health Conditions Comparison",
	}
}

// Accent returns the accent color for k, falling back to the default
// palette for an unset entry.
func (t Theme) Accent(k metric.Key) string {
	if !k.Valid() {
		return ""
	}
	if c := t.Accents[k]; c != "" {
		return c
	}
	return Default().Accents[k]
}

// Load reads a theme file. An empty path returns Default. Fields absent from
// the file keep their default values. Accent keys are metric field names,
// matched case-insensitively.
func Load(path string) (Theme, error) {
	th := Default()
	if path == "" {
		return th, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, eris.Wrapf(err, "theme: read %s", path)
	}

	// The file has a top-level "theme" key.
	var wrapper struct {
		Theme struct {
			Theme   `yaml:",inline"`
			Accents map[string]string `yaml:"accents"`
		} `yaml:"theme"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Theme{}, eris.Wrap(err, "theme: parse")
	}

	for field, c := range wrapper.Theme.Accents {
		k, err := metric.Parse(field)
		if err != nil {
			return Theme{}, eris.Wrapf(err, "theme: accent for %q", field)
		}
		if c != "" {
			th.Accents[k] = c
		}
	}
	th.merge(wrapper.Theme.Theme)
	return th, nil
}

func (t *Theme) merge(o Theme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Low, o.Low)
	set(&t.NationalColor, o.NationalColor)
	set(&t.CountyColor, o.CountyColor)
	set(&t.StripeColor, o.StripeColor)
	set(&t.BorderColor, o.BorderColor)
	set(&t.GroupedTitle, o.GroupedTitle)
}
