package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedObjectPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")
	bareObjectPattern    = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls the first JSON object out of a model response. Models in
// JSON mode usually return a bare object, but fenced blocks and trailing
// commas still show up.
func ExtractJSON(content string) string {
	raw := ""
	if m := fencedObjectPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else {
		raw = bareObjectPattern.FindString(content)
	}
	if raw == "" {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(strings.TrimSpace(raw), "$1")
}

// DecodeJSON extracts and unmarshals a JSON object from content into v.
// Any failure is reported as KindInvalidResponse.
func DecodeJSON(content string, v interface{}) error {
	raw := ExtractJSON(content)
	if raw == "" {
		return NewError(KindInvalidResponse, "no JSON object in model response", nil)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return NewError(KindInvalidResponse, "malformed JSON in model response", err)
	}
	return nil
}
