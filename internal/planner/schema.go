package planner

import "github.com/abhisek/guidekit/internal/llm"

// PlanSchema is the structured-output schema for curriculum planning.
var PlanSchema = &llm.Schema{
	Name:        "knowledge-points",
	Description: "An ordered, progressive list of knowledge points derived from learning records",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"knowledge_points": map[string]any{
				"type":        "array",
				"description": "Knowledge points in the order the learner should study them",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"knowledge_title": map[string]any{
							"type":        "string",
							"description": "Short name of the concept",
						},
						"knowledge_summary": map[string]any{
							"type":        "string",
							"description": "2-4 sentence explanation of the concept",
						},
						"user_difficulty": map[string]any{
							"type":        "string",
							"description": "What this learner is likely to find hard, from their records",
						},
					},
					"required":             []any{"knowledge_title", "knowledge_summary", "user_difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"knowledge_points"},
		"additionalProperties": false,
	},
}
