// Package buildargs converts the JSON array of KEY=VALUE strings accepted on
// the command line into validated build arguments.
//
// Values may carry secret material injected by the CI system, so they are
// passed through opaquely: never validated beyond the split, never logged,
// and never echoed in error messages. Errors name the offending index only.
package buildargs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput indicates the input was not a valid JSON array of strings.
	ErrMalformedInput = errors.New("build args must be a JSON array of strings")

	// ErrInvalidEntry indicates an array element did not contain a '=' separator.
	ErrInvalidEntry = errors.New("build arg entry must be KEY=VALUE")
)

// Arg is a single build argument. Value may be empty and may contain further
// '=' characters; only the first '=' splits key from value.
type Arg struct {
	Key   string
	Value string
}

// Parse decodes a JSON array of "KEY=VALUE" strings. An empty string or "[]"
// yields zero args. The returned args preserve array order.
func Parse(jsonArrayText string) ([]Arg, error) {
	if strings.TrimSpace(jsonArrayText) == "" {
		return nil, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(jsonArrayText), &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	args := make([]Arg, 0, len(entries))
	for i, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			// Do not include the entry content: it may hold a secret.
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidEntry, i)
		}
		args = append(args, Arg{Key: key, Value: value})
	}
	return args, nil
}

// ToMap converts parsed args to the map shape the image builder consumes.
// Later duplicate keys overwrite earlier ones.
func ToMap(args []Arg) map[string]string {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]string, len(args))
	for _, a := range args {
		m[a.Key] = a.Value
	}
	return m
}
