package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnknownModality      = errors.New("unknown modality")
	ErrInvalidGuess         = errors.New("invalid guess for modality")
	ErrNotYetAvailable      = errors.New("result not yet available")
	ErrResultIncomplete     = errors.New("official result incomplete")
	ErrNoMatch              = errors.New("no result matched after relaxation")
	ErrUpstreamParse        = errors.New("unexpected upstream markup")
	ErrUpstreamTimeout      = errors.New("upstream fetch timed out")
	ErrUpstreamNoResults    = errors.New("upstream has no results for this date")
	ErrUpstreamDateTooOld   = errors.New("date outside allowed visitor range")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrAlreadySettled       = errors.New("wager already settled")
	ErrNoDrawOnWeekday      = errors.New("lottery has no draw on this weekday")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrLockHeld             = errors.New("lock already held")
)
