package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts scoring providers for resume analysis.
type Client interface {
	AnalyzeResume(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for one analysis call.
type AnalyzeInput struct {
	ResumeText     string
	JobDescription string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// AnalyzeResume returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeResume(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
