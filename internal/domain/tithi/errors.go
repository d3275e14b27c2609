package tithi

import "errors"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrFutureDate   = errors.New("date is in the future")
	ErrInvalidTable = errors.New("invalid tithi table")
)
