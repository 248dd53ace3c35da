package service

import (
	"encoding/json"
	"time"
)

// DeletionState records the progress of one storage-key deletion so
// operators can audit leaked files after the fact. Serialized to JSON
// in Redis, keyed by storage key.
type DeletionState struct {
	// Key is the storage key being deleted.
	Key string `json:"key"`

	// Attempts is the number of delete attempts made so far.
	Attempts int `json:"attempts"`

	// Disposition is "pending", "succeeded", or "exhausted".
	Disposition string `json:"disposition"`

	// LastError is the most recent delete error, empty on success.
	LastError string `json:"last_error"`

	// UpdatedAt is when this state last changed (UTC).
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DispositionPending   = "pending"
	DispositionSucceeded = "succeeded"
	DispositionExhausted = "exhausted"
)

func DeletionStateFromJSON(jsonData string) (*DeletionState, error) {
	state := &DeletionState{}
	err := json.Unmarshal([]byte(jsonData), state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DeletionState) ToJSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
