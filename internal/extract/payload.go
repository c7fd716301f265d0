package extract

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/guidekit/internal/guide"
)

// Payload is the structured description of one interactive learning
// artifact. All seven fields are required by the rendering layer.
type Payload struct {
	Title          string   `json:"title"`
	Concept        string   `json:"concept"`
	KeyPoints      []string `json:"key_points"`
	ExampleProblem string   `json:"example_problem"`
	ExampleAnswer  string   `json:"example_answer"`
	CheckQuestion  string   `json:"check_question"`
	NextHint       string   `json:"next_hint"`
}

// FallbackPayload synthesizes a complete payload from the knowledge
// point alone. It is used whole when the model output is unusable and
// field-by-field when the output is only partially valid.
func FallbackPayload(kp guide.KnowledgePoint) Payload {
	title := kp.Title
	if title == "" {
		title = "Knowledge Point"
	}
	difficulty := kp.Difficulty
	if difficulty == "" {
		difficulty = "Beginner"
	}
	return Payload{
		Title:   title,
		Concept: kp.Summary,
		KeyPoints: []string{
			"Summarize the core idea in your own words.",
			"Identify the key inputs, outputs, and assumptions.",
			"Common difficulty: " + difficulty,
		},
		ExampleProblem: fmt.Sprintf("Explain %s with a simple example.", title),
		ExampleAnswer:  kp.Summary,
		CheckQuestion:  fmt.Sprintf("In one paragraph, explain %s.", title),
		NextHint:       "If this makes sense, move to the next knowledge point.",
	}
}

// ArtifactPayload shapes raw model text into a complete Payload.
// When the text holds no usable JSON object, the whole fallback is
// substituted. When individual fields are missing (or key_points is not
// a list), only those fields are backfilled and everything the model
// supplied is preserved. The second return reports whether fallback
// logic produced or repaired any part of the result.
func ArtifactPayload(text string, kp guide.KnowledgePoint) (Payload, bool) {
	fallback := FallbackPayload(kp)

	raw, ok := Parse(text)
	if !ok {
		return fallback, true
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Valid JSON but not an object.
		return fallback, true
	}

	repaired := false
	takeString := func(key, fb string) string {
		v, present := fields[key]
		if !present {
			repaired = true
			return fb
		}
		return coerceString(v)
	}

	payload := Payload{
		Title:          takeString("title", fallback.Title),
		Concept:        takeString("concept", fallback.Concept),
		ExampleProblem: takeString("example_problem", fallback.ExampleProblem),
		ExampleAnswer:  takeString("example_answer", fallback.ExampleAnswer),
		CheckQuestion:  takeString("check_question", fallback.CheckQuestion),
		NextHint:       takeString("next_hint", fallback.NextHint),
	}

	switch kps := fields["key_points"].(type) {
	case []any:
		payload.KeyPoints = make([]string, 0, len(kps))
		for _, item := range kps {
			payload.KeyPoints = append(payload.KeyPoints, coerceString(item))
		}
	default:
		// Absent or not a list.
		payload.KeyPoints = fallback.KeyPoints
		repaired = true
	}

	return payload, repaired
}
