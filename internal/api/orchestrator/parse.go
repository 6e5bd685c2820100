package orchestrator

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseResult is either a value or the reason the model output could not be
// read. Callers branch on OK instead of inspecting errors.
type ParseResult[T any] struct {
	Value  T
	Reason string
}

func (r ParseResult[T]) OK() bool { return r.Reason == "" }

func ok[T any](v T) ParseResult[T] { return ParseResult[T]{Value: v} }

func parseError[T any](reason string) ParseResult[T] { return ParseResult[T]{Reason: reason} }

var arrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// cleanJSONResponse strips markdown fences and surrounding prose.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}

// parseArray reads a JSON array of T from model output. It accepts a bare
// array, an object wrapping the array under field, or an array embedded in
// prose.
func parseArray[T any](raw, field string) ParseResult[[]T] {
	text := cleanJSONResponse(raw)
	if text == "" {
		return parseError[[]T]("empty response")
	}

	var out []T
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return ok(nonNil(out))
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil {
		if inner, found := wrapped[field]; found {
			if err := json.Unmarshal(inner, &out); err == nil {
				return ok(nonNil(out))
			}
		}
	}

	match := arrayPattern.FindString(text)
	if match == "" {
		return parseError[[]T]("no JSON array in response")
	}
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		return parseError[[]T]("extracted array is not valid JSON: " + err.Error())
	}
	return ok(nonNil(out))
}

// parseObject reads a JSON object of T, trimming prose around the outermost
// braces.
func parseObject[T any](raw string) ParseResult[T] {
	text := cleanJSONResponse(raw)
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return parseError[T]("no JSON object in response")
	}

	var out T
	if err := json.Unmarshal([]byte(text[first:last+1]), &out); err != nil {
		return parseError[T]("invalid JSON object: " + err.Error())
	}
	return ok(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
