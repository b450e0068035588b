package domain

import "errors"

// Calendar validation errors
var (
	ErrInvalidStartHour  = errors.New("start hour must be between 0 and 23")
	ErrInvalidEndHour    = errors.New("end hour must be between 1 and 24")
	ErrInvalidHourRange  = errors.New("start hour must be before end hour")
	ErrNoBusinessDays    = errors.New("at least one business day is required")
	ErrInvalidSLAMinutes = errors.New("sla minutes must be positive")
)

// Report window errors
var (
	ErrInvalidTimeWindow = errors.New("report window start must be before its end")
	ErrMissingTimeWindow = errors.New("report window is required")
)
