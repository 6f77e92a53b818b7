// Package anthropic implements the structured-generation collaborator on top
// of the Anthropic API. Structured output is enforced through forced tool
// use: the schema becomes a tool the model must call, and the tool input is
// the returned object.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	domainllm "coursecraft/internal/domain/services/llm"
)

const defaultMaxOutputTokens = 4096

// Provider implements the StructuredGenerator interface for Anthropic
// (Claude) models.
type Provider struct {
	client *anthropic.Client
	model  string
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client: &client,
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// Generate runs one structured-generation call and returns the raw JSON
// object the model produced against the schema.
func (p *Provider) Generate(ctx context.Context, req *domainllm.GenerateRequest) (json.RawMessage, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("schema is required for structured generation")
	}

	maxTokens := int64(req.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        req.Schema.Name,
				Description: anthropic.String(req.Schema.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: req.Schema.Properties,
					Required:   req.Schema.Required,
				},
			},
		}},
		// Forcing the tool guarantees the response carries exactly the
		// requested object shape.
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Schema.Name},
		},
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	for _, block := range message.Content {
		if variant, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			return json.RawMessage(variant.JSON.Input.Raw()), nil
		}
	}

	return nil, fmt.Errorf("anthropic response contained no tool use block (stop reason %q)", message.StopReason)
}

// Retryable classifies transient Anthropic failures: rate limits and server
// errors by status code, plus connection-reset and timeout failures that
// surface only as message text.
func (p *Provider) Retryable(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 429, 500, 503, 529:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"connection reset", "timeout", "timed out", "deadline exceeded"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
