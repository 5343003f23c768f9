package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoJSON is returned when a response does not start with a JSON
	// object or array.
	ErrNoJSON = errors.New("no JSON found in response")
	// ErrTrailingData is returned when anything but whitespace follows the
	// JSON value.
	ErrTrailingData = errors.New("unexpected data after JSON")
)

// ExtractAndParseJSON unmarshals an LLM response that must hold exactly one
// JSON object or array. A surrounding markdown code fence is stripped; prose
// before or after the value is rejected, and the JSON is not repaired.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := cleanLLMResponse(response)
	if cleaned == "" {
		return result, ErrNoJSON
	}

	if cleaned[0] != '{' && cleaned[0] != '[' {
		// A JSON string that itself holds JSON.
		var asString string
		if err := json.Unmarshal([]byte(cleaned), &asString); err == nil {
			return ExtractAndParseJSON[T](asString)
		}
		return result, ErrNoJSON
	}
	decoder := json.NewDecoder(strings.NewReader(cleaned))
	if err := decoder.Decode(&result); err != nil {
		return result, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, ErrTrailingData
	}
	return result, nil
}

// cleanLLMResponse strips surrounding whitespace and markdown code fences.
func cleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")

	return strings.TrimSpace(response)
}
