package calculator

import "errors"

var (
	// ErrNoDataAvailable is returned when the provider had no bars in the window.
	ErrNoDataAvailable = errors.New("no data available")
	// ErrNoPreviousTradingDay is returned when the resolved day has no predecessor in the window.
	ErrNoPreviousTradingDay = errors.New("no previous trading day available")
	// ErrZeroPreviousPrice guards the return division.
	ErrZeroPreviousPrice = errors.New("previous price is zero")
)
