package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single abstraction every component uses to talk to a
// text-generation backend. A request either returns a complete response
// or fails; there is no streaming consumption anywhere in guidekit.
type Provider interface {
	// Generate sends a prompt and returns the completed response.
	// When the request carries a Schema, the provider uses its native
	// structured-output mechanism and the returned Content is JSON
	// validated against that schema. Without a Schema, Content is the
	// raw response text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	// System is the system prompt establishing the agent's role.
	System string

	// Messages is the ordered conversation to complete. Most guidekit
	// calls are single-turn with one user message.
	Messages []Message

	// Schema, when non-nil, switches the call into structured-output
	// mode: the provider is asked for JSON conforming to the schema.
	Schema *Schema

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness, 0.0 - 1.0.
	Temperature float64
}

// Message is one role-tagged entry in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the provider (tool name for
	// Anthropic, schema name for OpenAI). Kebab-case.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Response is the completed output of one request.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons shared by every provider adapter.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finalizeResponse is the post-processing step shared by the provider
// adapters. A truncated response is an error, not a result, because
// every caller parses the content; structured responses are validated
// before they reach callers.
func finalizeResponse(schema *Schema, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if schema != nil {
		if err := validateResponse(schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Usage tracks token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a plain string.
func (r *Response) Text() string {
	return string(r.Content)
}
