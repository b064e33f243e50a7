package notion

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// checkpointData is the persisted checkpoint format.
type checkpointData struct {
	LastProcessed time.Time `json:"last_processed"`
}

// FileCheckpoint persists the last-processed timestamp between
// process restarts so the polling loop skips already-seen items.
type FileCheckpoint struct {
	path string
}

// NewFileCheckpoint creates a checkpoint backed by one JSON file.
func NewFileCheckpoint(path string) *FileCheckpoint {
	return &FileCheckpoint{path: path}
}

// Load returns the stored timestamp. A missing file yields the zero
// time and no error; a corrupt file is an error.
func (c *FileCheckpoint) Load() (time.Time, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp checkpointData
	if err := json.Unmarshal(data, &cp); err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint %s: %w", c.path, err)
	}
	return cp.LastProcessed, nil
}

// Save writes the timestamp atomically via a temp file rename.
func (c *FileCheckpoint) Save(t time.Time) error {
	data, err := json.Marshal(checkpointData{LastProcessed: t.UTC()})
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}
