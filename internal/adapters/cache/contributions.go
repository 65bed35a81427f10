package cache

import (
	"encoding/json"
	"fmt"
)

// encodeContributions serializes the per-feature contribution map for a
// text column. SQL backends share one representation so entries survive a
// backend switch via dump and restore.
func encodeContributions(contribs map[string]float64) (string, error) {
	if contribs == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(contribs)
	if err != nil {
		return "", fmt.Errorf("failed to encode contributions: %w", err)
	}
	return string(raw), nil
}

func decodeContributions(raw string) (map[string]float64, error) {
	contribs := make(map[string]float64)
	if raw == "" {
		return contribs, nil
	}
	if err := json.Unmarshal([]byte(raw), &contribs); err != nil {
		return nil, fmt.Errorf("failed to decode contributions: %w", err)
	}
	return contribs, nil
}
