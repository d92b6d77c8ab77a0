package healthdata

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrDataLoad matches every failure to fetch or parse an input dataset.
	ErrDataLoad = eris.New("healthdata: data load failed")
	// ErrDataIntegrity matches a join that correlated no county at all.
	ErrDataIntegrity = eris.New("healthdata: boundaries and statistics do not correlate")
)

// LoadError reports which input could not be loaded.
type LoadError struct {
	Resource string // "boundaries" or "statistics"
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("healthdata: load %s from %s: %v", e.Resource, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes every LoadError match ErrDataLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrDataLoad
}

// IntegrityError reports a join with zero matches.
type IntegrityError struct {
	Boundaries int
	Rows       int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("healthdata: no statistics row matched any of %d boundaries (%d rows)", e.Boundaries, e.Rows)
}

// Is makes every IntegrityError match ErrDataIntegrity.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
