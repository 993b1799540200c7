package excuse

import (
	"context"
	"errors"
)

// Generator produces excuse text from a prompt. Implementations return the
// trimmed model output; fallback substitution is the caller's job.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackExcuse is served whenever the generator fails. The endpoint always
// returns a usable excuse field.
const FallbackExcuse = "Sorry, I couldn't come up with a good excuse right now."

// ErrEmptyCompletion means the model answered without usable text.
var ErrEmptyCompletion = errors.New("empty completion")
