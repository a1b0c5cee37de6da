package llm

import (
	"context"
	"errors"
)

// ErrNoProviderConfigured is returned by Unavailable's Available, and
// wrapped into perr.LLMUnavailable by any caller that needs the LLM
// fallback and finds none configured.
var ErrNoProviderConfigured = errors.New("no LLM provider configured")

// Unavailable is the zero-configuration Client: every method reports
// unavailability rather than attempting a call. pkg/pipeline.Detect
// falls back to this when Options.Client is nil, and the CLI passes it
// explicitly, so the deterministic-only path never nil-dereferences a
// Client.
type Unavailable struct{}

func (Unavailable) Available(_ context.Context) error { return ErrNoProviderConfigured }

func (Unavailable) Classify(_ context.Context, _ ClassifyRequest) (ClassifyResponse, error) {
	return ClassifyResponse{}, ErrNoProviderConfigured
}

func (Unavailable) ExtractDependencies(_ context.Context, _ DependencyRequest) (DependencyResponse, error) {
	return DependencyResponse{}, ErrNoProviderConfigured
}
