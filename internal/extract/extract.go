// Package extract turns raw model output into validated structured
// values. Models frequently wrap JSON in prose or code fences, or return
// payloads with missing fields; this package owns all of that tolerance
// so callers see either clean values or well-defined fallbacks.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// Parse attempts to locate a JSON value in text. Strategies are tried in
// order, first success wins:
//
//  1. the entire text parses as JSON
//  2. the contents of a fenced code block parse as JSON
//  3. the outermost brace- or bracket-delimited region parses as JSON
//
// The second return is false when no strategy yields valid JSON, which
// is distinct from successfully parsing an empty value.
func Parse(text string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), true
	}

	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		block := strings.TrimSpace(m[1])
		if block != "" && json.Valid([]byte(block)) {
			return json.RawMessage(block), true
		}
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		if region, ok := outermostRegion(text, pair[0], pair[1]); ok {
			return region, true
		}
	}

	return nil, false
}

// outermostRegion takes the substring from the first open delimiter to
// the last matching close delimiter and checks whether it parses.
func outermostRegion(text string, open, closing byte) (json.RawMessage, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return nil, false
	}
	end := strings.LastIndexByte(text, closing)
	if end <= start {
		return nil, false
	}
	region := text[start : end+1]
	if !json.Valid([]byte(region)) {
		return nil, false
	}
	return json.RawMessage(region), true
}

// coerceString renders an arbitrary decoded JSON value as text.
// Strings are trimmed; nil becomes empty; everything else is compactly
// re-encoded.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
