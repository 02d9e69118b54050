package aggregate

import "errors"

var (
	// ErrUnknownGranularity is returned for a granularity other than monthly, quarterly or yearly
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrYearOutOfRange is returned when a requested year is outside the resolver range
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrNotGroupable is returned for virtual dimensions that have no policy field
	ErrNotGroupable = errors.New("dimension cannot be grouped")
)
