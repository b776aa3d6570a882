// Package generate sends assembled prompts to an external text
// generation service. The pipeline depends only on the Generator
// interface and treats every failure as recoverable: a service error
// becomes an answer string, never a crash.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// ErrServiceUnavailable wraps transport-level failures reaching the
// generation service.
var ErrServiceUnavailable = errors.New("generate: service unavailable")

// StatusError reports a non-200 response from the generation service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generate: service returned status %d", e.Code)
}

// Generator produces an answer for a fully assembled prompt.
type Generator interface {
	// Generate returns the model's answer text. Errors are either a
	// *StatusError or wrap ErrServiceUnavailable.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the backing model for logging.
	Name() string
}
