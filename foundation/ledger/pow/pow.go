// Package pow implements the proof of work engine used to mine and
// verify blocks.
package pow

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// hashBits is the output width of the hash function in bits.
const hashBits = 256

// reportEvery controls how often mining progress is reported through
// the event handler.
const reportEvery = 1_000_000

// EventHandler defines a function that is called when mining events
// occur.
type EventHandler func(v string, args ...any)

// Engine searches for and verifies proof of work solutions against a
// fixed difficulty target.
type Engine struct {
	difficultyBits uint
	target         *uint256.Int
	ev             EventHandler
}

// New constructs an Engine for the specified difficulty. The target is
// 2^(256-difficultyBits) and a hash interpreted as a big-endian
// unsigned integer must fall strictly below it. Difficulty bits outside
// [1, 255] cannot produce a representable target and are rejected.
func New(difficultyBits uint, ev EventHandler) (*Engine, error) {
	if difficultyBits < 1 || difficultyBits > hashBits-1 {
		return nil, fmt.Errorf("difficulty bits must be in [1, %d], got %d", hashBits-1, difficultyBits)
	}

	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	target := uint256.NewInt(1)
	target.Lsh(target, hashBits-difficultyBits)

	e := Engine{
		difficultyBits: difficultyBits,
		target:         target,
		ev:             ev,
	}

	return &e, nil
}

// Difficulty returns the configured difficulty bits.
func (e *Engine) Difficulty() uint {
	return e.difficultyBits
}

// Mine searches nonce values from zero upward until the hash of the
// payload with that nonce falls below the target, returning the nonce
// and the hex encoded hash. The search has no upper bound on attempts.
// Progress is reported through the event handler so a long search stays
// visible.
func (e *Engine) Mine(payload []byte) (uint64, string) {
	e.ev("pow: mine: started: difficulty bits[%d]", e.difficultyBits)

	for nonce := uint64(0); ; nonce++ {
		if nonce > 0 && nonce%reportEvery == 0 {
			e.ev("pow: mine: attempts[%d]", nonce)
		}

		hash := e.hash(payload, nonce)
		if !e.solved(hash) {
			continue
		}

		hashStr := hex.EncodeToString(hash[:])
		e.ev("pow: mine: solved: nonce[%d]: hash[%s]", nonce, hashStr)

		return nonce, hashStr
	}
}

// Verify recomputes the hash for the payload and nonce and checks both
// the target inequality and equality with the claimed hash. It is used
// on chain load to catch tampering or corruption.
func (e *Engine) Verify(payload []byte, nonce uint64, claimedHash string) bool {
	hash := e.hash(payload, nonce)

	if hex.EncodeToString(hash[:]) != claimedHash {
		return false
	}

	return e.solved(hash)
}

// =============================================================================

// hash computes the content hash for one attempt. The hashed data is
// the payload followed by the difficulty bits and the nonce, both as
// big-endian 64 bit values.
func (e *Engine) hash(payload []byte, nonce uint64) [32]byte {
	data := make([]byte, 0, len(payload)+16)
	data = append(data, payload...)
	data = binary.BigEndian.AppendUint64(data, uint64(e.difficultyBits))
	data = binary.BigEndian.AppendUint64(data, nonce)

	return sha256.Sum256(data)
}

// solved checks the hash as a big-endian unsigned integer against the
// target.
func (e *Engine) solved(hash [32]byte) bool {
	return new(uint256.Int).SetBytes(hash[:]).Lt(e.target)
}
