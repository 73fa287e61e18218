package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SplitPayload extracts the match objects from an exported file. Accepted
// shapes: a bare array of matches, a game-week response with a
// "divisionMatches" (or "matches") array, or a single match object.
func SplitPayload(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty payload")
	}

	switch data[0] {
	case '[':
		var out []json.RawMessage
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse match array: %w", err)
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parse payload: %w", err)
		}
		for _, key := range []string{"divisionMatches", "matches"} {
			if list, ok := obj[key]; ok {
				return SplitPayload(list)
			}
		}
		if _, ok := obj["id"]; ok {
			return []json.RawMessage{json.RawMessage(data)}, nil
		}
		return nil, errors.New("payload has no divisionMatches, matches or id")
	}
	return nil, fmt.Errorf("unexpected payload start %q", data[0])
}
