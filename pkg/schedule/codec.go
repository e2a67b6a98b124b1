package schedule

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Marshal serializes a schedule into its nested JSON form.
func Marshal(s Schedule) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schedule: %w", err)
	}
	return data, nil
}

// Unmarshal restores a schedule from its nested JSON form.
func Unmarshal(data []byte) (Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse schedule JSON: %w", err)
	}
	return s, nil
}
