package bahee

import "errors"

var (
	ErrHeaderNotFound = errors.New("bahee header not found")
	ErrHeaderExists   = errors.New("bahee header already exists")
	ErrHeaderInUse    = errors.New("bahee header has entries")
	ErrEntryNotFound  = errors.New("entry not found")

	ErrReturnNetNotFound = errors.New("return-net record not found")

	ErrInvalidCategory     = errors.New("invalid category")
	ErrNameRequired        = errors.New("name is required")
	ErrHeaderNameRequired  = errors.New("header name is required")
	ErrInvalidAmount       = errors.New("amounts must be finite and non-negative")
	ErrAmountRequired      = errors.New("amount is required when enabled")
	ErrEmptyContribution   = errors.New("income or amount must be non-zero")
	ErrDescriptionRequired = errors.New("description is required")

	// ErrEntryLocked is returned for any mutation of an entry that already
	// has a return-net record.
	ErrEntryLocked = errors.New("entry is locked")
	// ErrMissingConfirmation is returned before any write when the
	// return-net confirmation toggle is off.
	ErrMissingConfirmation = errors.New("return-net confirmation is required")
	// ErrConcurrentLockRace means the conditional lock write found the entry
	// already locked by a concurrent request.
	ErrConcurrentLockRace = errors.New("entry was locked concurrently")
)

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrHeaderNameRequired),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAmountRequired),
		errors.Is(err, ErrEmptyContribution),
		errors.Is(err, ErrDescriptionRequired):
		return true
	}
	return false
}
