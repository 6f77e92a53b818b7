package llm

import (
	"context"
	"encoding/json"
)

// StructuredGenerator is the external structured-generation collaborator.
// Implementations wrap a provider SDK and return the raw JSON object the
// model produced against the requested schema.
type StructuredGenerator interface {
	// Generate runs a single generation call. The returned bytes are a
	// JSON object conforming to req.Schema (the provider enforces this via
	// forced tool use or an equivalent mechanism).
	Generate(ctx context.Context, req *GenerateRequest) (json.RawMessage, error)

	// Name returns the provider name (e.g., "anthropic", "static")
	Name() string

	// Retryable reports whether an error from Generate is transient and
	// worth retrying. Each provider supplies its own classification so the
	// retry loop never inspects provider error shapes itself.
	Retryable(err error) bool
}

// GenerateRequest contains the parameters for a structured generation call.
type GenerateRequest struct {
	// Prompt is the natural-language analysis request.
	Prompt string

	// System optionally frames the model's role.
	System string

	// Schema describes the JSON object the model must return.
	Schema *Schema

	// MaxOutputTokens is the output budget for the call.
	MaxOutputTokens int
}

// Schema is a JSON-schema-like description of the expected output object.
type Schema struct {
	// Name identifies the schema to the provider (tool name for providers
	// that implement structured output via forced tool use).
	Name string

	// Description tells the model what the object represents.
	Description string

	// Properties maps field names to JSON-schema fragments.
	Properties map[string]any

	// Required lists property names that must be present.
	Required []string
}
