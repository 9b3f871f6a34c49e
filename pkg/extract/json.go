package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSON decodes a single JSON document. Trailing non-whitespace after the
// document is an error, so "{}{}" does not silently parse as "{}".
func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("extract: parse json: %w", err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err == nil {
		return nil, fmt.Errorf("extract: parse json: trailing content after document")
	}
	return v, nil
}

// DecodeValue converts a generic extraction value into out via a JSON
// round trip. out must be a non-nil pointer.
func DecodeValue(value, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(value); err != nil {
		return fmt.Errorf("extract: encode value: %w", err)
	}
	dec := json.NewDecoder(&buf)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("extract: decode value: %w", err)
	}
	return nil
}
