package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCourse is returned when a key is not in the catalogue
var ErrUnknownCourse = errors.New("unknown course")

// ConflictError lists the placed courses that clash with Key.
type ConflictError struct {
	Key  string
	With []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("course %s conflicts with %s", e.Key, strings.Join(e.With, ", "))
}

// PriorityConflictError means Key clashes with courses the user ranked higher.
type PriorityConflictError struct {
	Key     string
	Blocked []string
}

func (e *PriorityConflictError) Error() string {
	return fmt.Sprintf("course %s conflicts with higher priority %s", e.Key, strings.Join(e.Blocked, ", "))
}
