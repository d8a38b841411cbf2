// Package genesis maintains the chain settings captured when a chain is
// first created.
package genesis

import (
	"encoding/json"
	"fmt"
	"time"
)

// Default settings applied when the caller does not override them.
const (
	DefaultDifficultyBits = 24
	DefaultReward         = 50
)

// Genesis represents the configuration recorded at chain creation time.
// Blocks are verified against these recorded settings on reload, never
// against the running process configuration.
type Genesis struct {
	Date           time.Time `json:"date"`            // When the chain was created.
	DifficultyBits uint      `json:"difficulty_bits"` // Leading bits constrained by the proof of work target.
	Reward         uint64    `json:"reward"`          // Value credited to the account named at creation.
}

// New constructs a Genesis document, applying defaults for zero values.
func New(difficultyBits uint, reward uint64) Genesis {
	if difficultyBits == 0 {
		difficultyBits = DefaultDifficultyBits
	}
	if reward == 0 {
		reward = DefaultReward
	}

	return Genesis{
		Date:           time.Now().UTC(),
		DifficultyBits: difficultyBits,
		Reward:         reward,
	}
}

// Marshal produces the stored byte encoding of the document.
func (g Genesis) Marshal() ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal genesis: %w", err)
	}

	return data, nil
}

// Unmarshal reconstructs a document from its stored byte encoding.
func Unmarshal(data []byte) (Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis: %w", err)
	}

	return g, nil
}
