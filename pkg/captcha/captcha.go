package captcha

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyAnswer is returned when a solver produced no text
	ErrEmptyAnswer = errors.New("captcha answer is empty")
	// ErrServiceFailed is returned when the recognition service keeps failing
	ErrServiceFailed = errors.New("captcha service failed")
)

// Solver turns a captcha image into its text.
type Solver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}

// SolverFunc adapts a plain function to Solver.
type SolverFunc func(ctx context.Context, image []byte) (string, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// FromConfig returns an HTTPSolver when serviceURL is set and a PromptSolver
// writing images to dir otherwise.
func FromConfig(serviceURL, dir string) Solver {
	if strings.TrimSpace(serviceURL) != "" {
		return NewHTTPSolver(serviceURL)
	}
	return &PromptSolver{Dir: dir}
}

// clean strips whitespace the recognisers and users tend to leave around answers.
func clean(s string) string {
	return strings.Join(strings.Fields(s), "")
}
