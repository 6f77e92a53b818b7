// Package static is a mock structured-generation provider for development
// and tests. It answers every analysis request with a clean pass, without
// requiring real API keys.
package static

import (
	"context"
	"encoding/json"

	domainllm "coursecraft/internal/domain/services/llm"
)

// Provider is the no-network StructuredGenerator.
type Provider struct{}

// NewProvider creates a new static provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "static"
}

// Generate returns a canned passing analysis object.
func (p *Provider) Generate(ctx context.Context, req *domainllm.GenerateRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := map[string]any{
		"passed":  true,
		"issues":  []any{},
		"summary": "static provider: no analysis performed",
	}
	return json.Marshal(out)
}

// Retryable always reports false; the static provider never fails
// transiently.
func (p *Provider) Retryable(error) bool {
	return false
}
