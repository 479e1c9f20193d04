package interfaces

import (
	"context"
)

// NarrativeRenderer turns a compact signal summary into free-text rationale.
// Always optional: callers fall back to a baseline rationale on any error.
type NarrativeRenderer interface {
	Render(ctx context.Context, system string, prompt string) (string, error)
	Provider() string
}
