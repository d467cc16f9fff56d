// Package report serializes the derived report artifacts. The format is
// fixed: a pretty-printed JSON array with 2-space indentation.
package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal renders v as pretty JSON with a trailing newline.
func Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes v as a pretty JSON artifact at path.
func WriteJSON(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
