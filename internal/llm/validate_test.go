package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func pointsSchema() *Schema {
	return &Schema{
		Name:        "test-points",
		Description: "knowledge point list",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"knowledge_points": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"knowledge_title": map[string]any{"type": "string"},
						},
						"required": []string{"knowledge_title"},
					},
				},
			},
			"required": []string{"knowledge_points"},
		},
	}
}

func TestValidateResponse_NilSchemaPasses(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"knowledge_points":[{"knowledge_title":"Attention"}]}`)
	if err := validateResponse(pointsSchema(), raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_MissingRequiredField(t *testing.T) {
	raw := json.RawMessage(`{"knowledge_points":[{}]}`)
	err := validateResponse(pointsSchema(), raw)

	var invResp *ErrInvalidResponse
	if !errors.As(err, &invResp) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if string(invResp.Content) != string(raw) {
		t.Fatalf("expected raw content attached, got %s", invResp.Content)
	}
}

func TestValidateResponse_NotJSON(t *testing.T) {
	err := validateResponse(pointsSchema(), json.RawMessage(`here are your points:`))

	var invResp *ErrInvalidResponse
	if !errors.As(err, &invResp) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_SchemaCached(t *testing.T) {
	raw := json.RawMessage(`{"knowledge_points":[{"knowledge_title":"a"}]}`)
	s := pointsSchema()
	if err := validateResponse(s, raw); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("expected compiled schema in cache")
	}
	if err := validateResponse(s, raw); err != nil {
		t.Fatalf("second validation: %v", err)
	}
}
