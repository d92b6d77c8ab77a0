package dashboard

import "github.com/rotisserie/eris"

var (
	// ErrUnknownCounty is returned for a FIPS that is not on the map.
	ErrUnknownCounty = eris.New("dashboard: unknown county")
	// ErrUnknownMetric is returned for a key outside the four indicators.
	ErrUnknownMetric = eris.New("dashboard: unknown metric")
	// ErrUnknownEvent is returned for an event kind or target the loop does not handle.
	ErrUnknownEvent = eris.New("dashboard: unknown event")
	// ErrStopped is returned by Dispatch once Run has returned.
	ErrStopped = eris.New("dashboard: controller stopped")
)
