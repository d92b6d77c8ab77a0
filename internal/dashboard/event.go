package dashboard

import (
	"github.com/sells-group/healthmap/internal/chart"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/svg"
)

// EventKind names a user interaction or read.
type EventKind int

// Event kinds handled by the controller loop.
const (
	SetMetric EventKind = iota
	SelectCounty
	ClickBar
	HoverCounty
	LeaveCounty
	HoverBar
	LeaveBar
	Reset
	State
	Snapshot
)

var eventNames = [...]string{
	SetMetric:    "set_metric",
	SelectCounty: "select_county",
	ClickBar:     "click_bar",
	HoverCounty:  "hover_county",
	LeaveCounty:  "leave_county",
	HoverBar:     "hover_bar",
	LeaveBar:     "leave_bar",
	Reset:        "reset",
	State:        "state",
	Snapshot:     "snapshot",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// mutates reports whether the event can change what is drawn.
func (k EventKind) mutates() bool {
	return k != State && k != Snapshot
}

// Bar chart targets for HoverBar.
const (
	TargetBarchart = "barchart"
	TargetGrouped  = "grouped"
)

// Event is one request to the controller loop. Only the fields that apply
// to Kind are read.
type Event struct {
	Kind   EventKind
	ID     string // assigned by Dispatch when empty
	Metric metric.Key
	County string
	Series chart.Series
	Target string  // HoverBar: TargetBarchart or TargetGrouped
	X, Y   float64 // HoverCounty pointer position
}

// Selection is the shared selection state. Comparison implies County is set.
type Selection struct {
	Metric     metric.Key `json:"metric"`
	County     string     `json:"county,omitempty"`
	Comparison bool       `json:"comparison"`
}

// Views is one rendering of all three views.
type Views struct {
	Map      *svg.Element
	Barchart *svg.Element
	Grouped  *svg.Element
}

// Result is what the loop returns for an event.
type Result struct {
	EventID   string         `json:"event_id"`
	Version   uint64         `json:"version"`
	Selection Selection      `json:"selection"`
	Mode      chart.Mode     `json:"mode"`
	Title     string         `json:"title"`
	Handled   bool           `json:"handled"`
	Hovered   string         `json:"hovered,omitempty"` // FIPS under the pointer
	Tooltip   *chart.Tooltip `json:"tooltip,omitempty"`
	Views     *Views         `json:"-"`
}
