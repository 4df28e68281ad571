package course

import "errors"

var (
	// ErrInvalidDay is returned when a weekday name cannot be recognised
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidClock is returned for times that are not HH:MM within a day
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
	// ErrInvalidParity is returned for week parity values other than even, odd or every week
	ErrInvalidParity = errors.New("invalid week parity")
	// ErrEmptySession is returned when a session does not end after it starts
	ErrEmptySession = errors.New("session must end after it starts")
)
