package extract

import (
	"encoding/json"

	"github.com/abhisek/guidekit/internal/guide"
)

// pointListKeys are the alternate top-level keys models use when they
// wrap the knowledge-point list in an object.
var pointListKeys = []string{"knowledge_points", "points", "data", "items"}

// KnowledgePoints shapes a parsed JSON value into an ordered list of
// knowledge points. The value may be a top-level array or an object
// holding the array under a recognized key. Malformed entries are
// dropped and malformed fields degraded; this function never fails the
// caller over a single bad entry.
func KnowledgePoints(raw json.RawMessage) []guide.KnowledgePoint {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}

	var entries []any
	switch v := parsed.(type) {
	case []any:
		entries = v
	case map[string]any:
		for _, key := range pointListKeys {
			if list, ok := v[key].([]any); ok && len(list) > 0 {
				entries = list
				break
			}
		}
	}

	points := make([]guide.KnowledgePoint, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		kp := guide.KnowledgePoint{
			Title:      coerceString(item["knowledge_title"]),
			Summary:    coerceString(item["knowledge_summary"]),
			Difficulty: coerceString(item["user_difficulty"]),
		}
		if kp.Title == "" {
			kp.Title = "Untitled"
		}
		points = append(points, kp)
	}
	return points
}
