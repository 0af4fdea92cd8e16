package usecase

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes (blank question). The web layer
// maps it to a client error.
var ErrInvalidInput = errors.New("invalid input")

// GenerationError reports that both the context-aware generation and the
// plain fallback generation failed. It is the only error the pipeline
// surfaces besides ErrInvalidInput.
type GenerationError struct {
	Primary  error
	Fallback error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v (fallback: %v)", e.Primary, e.Fallback)
}

func (e *GenerationError) Unwrap() error {
	return e.Primary
}
