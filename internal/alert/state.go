package alert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"IndexSentinel/internal/model"
)

// TrackerState records the highest severity already delivered per symbol and rule.
type TrackerState struct {
	Sent      map[string]model.Severity `json:"sent"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// LoadState reads the tracker state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*TrackerState, error) {
	state := &TrackerState{Sent: map[string]model.Severity{}}
	if filePath == "" {
		return state, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Sent == nil {
		state.Sent = map[string]model.Severity{}
	}
	return state, nil
}

// SaveState writes the tracker state to a JSON file. An empty path is a no-op.
func SaveState(filePath string, state *TrackerState) error {
	if filePath == "" {
		return nil
	}
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0o644)
}
