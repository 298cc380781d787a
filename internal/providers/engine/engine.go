package engine

import (
	"context"
	"fmt"

	"server/internal/studio/prompt"
)

// Engine is the external generation collaborator. It accepts a composed
// instruction payload and returns the raw model text, which the caller must
// route through the contract validator before use — the returned text is
// never assumed to be valid JSON.
type Engine interface {
	Generate(ctx context.Context, payload prompt.Payload) (string, error)
}

// Static is a deterministic engine for development and tests. It echoes a
// minimal valid response for the requested language so the pipeline can run
// without provider credentials.
type Static struct {
	Response string
}

// NewStatic returns a Static engine producing the given canned response.
func NewStatic(response string) *Static {
	return &Static{Response: response}
}

// Generate implements Engine.
func (s *Static) Generate(ctx context.Context, payload prompt.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Response != "" {
		return s.Response, nil
	}
	return fmt.Sprintf(`{"hook":"placeholder (%s)","outline":"placeholder","script":"placeholder","caption":"placeholder, follow for more"}`, payload.Language), nil
}

var _ Engine = (*Static)(nil)
