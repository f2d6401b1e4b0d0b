// Package jsonrepair extracts a JSON array from lenient LLM output: chat
// models wrap arrays in code fences, surround them with prose, and leave
// trailing commas. The repairs here are deliberately narrow; anything still
// unparsable after them is an error for the caller to handle.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	trailingCommaArrayRe  = regexp.MustCompile(`,\s*\]`)
	trailingCommaObjectRe = regexp.MustCompile(`,\s*\}`)
)

// ErrNoArray means no bracketed array could be located in the input.
var ErrNoArray = errors.New("no JSON array found in response")

// ExtractArray isolates the outermost array in a response and repairs
// trailing commas, returning the cleaned JSON text.
func ExtractArray(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoArray
	}
	s = s[start : end+1]

	s = trailingCommaArrayRe.ReplaceAllString(s, "]")
	s = trailingCommaObjectRe.ReplaceAllString(s, "}")
	return s, nil
}

// UnmarshalArray extracts, repairs, and unmarshals an array into v.
func UnmarshalArray(raw string, v any) error {
	cleaned, err := ExtractArray(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(cleaned), v)
}
