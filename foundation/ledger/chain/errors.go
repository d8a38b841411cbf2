package chain

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// Sentinel errors reported by chain operations. Callers check these
// with errors.Is.
var (
	// ErrAlreadyExists is returned by Create when the store already
	// holds a chain tip. The store is left untouched.
	ErrAlreadyExists = errors.New("chain already exists")

	// ErrUninitialized is returned when an operation requires a chain
	// that has not been created yet.
	ErrUninitialized = errors.New("chain not initialized")

	// ErrInsufficientFunds is returned by Send when the sender's
	// balance does not cover the value. The check runs before any
	// mining starts, so a failed send costs no work.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransaction aliases the database sentinel so callers
	// can check transaction validation failures against this package.
	ErrInvalidTransaction = database.ErrInvalidTransaction
)

// CorruptChainError reports a block that failed verification during the
// load walk. Once reported, every operation except Destroy returns the
// same error until the chain is destroyed. Callers retrieve it with
// errors.As.
type CorruptChainError struct {
	Number uint64 // Number of the offending block, when known.
	Hash   string // Hash or store key of the offending block.
	Reason string
}

// Error implements the error interface.
func (e *CorruptChainError) Error() string {
	return fmt.Sprintf("corrupt chain: block[%d] hash[%s]: %s", e.Number, e.Hash, e.Reason)
}
