package database

import (
	"errors"
	"fmt"
)

// ErrInvalidTransaction is returned when a transaction fails validation
// before it can be placed into a block.
var ErrInvalidTransaction = errors.New("invalid transaction")

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	FromID AccountID `json:"from"`  // Account sending the value. Empty only for the chain constructed reward.
	ToID   AccountID `json:"to"`    // Account receiving the value.
	Value  uint64    `json:"value"` // Monetary value transferred, in the smallest indivisible unit.
}

// NewTx constructs a new transaction between two accounts. The sender
// and recipient may be the same account; the transfer is then a no-op
// economically but still records on the chain.
func NewTx(fromID AccountID, toID AccountID, value uint64) (Tx, error) {
	if !fromID.IsAccountID() {
		return Tx{}, fmt.Errorf("%w: from account is not properly formatted", ErrInvalidTransaction)
	}

	if !toID.IsAccountID() {
		return Tx{}, fmt.Errorf("%w: to account is not properly formatted", ErrInvalidTransaction)
	}

	if value == 0 {
		return Tx{}, fmt.Errorf("%w: value must be greater than zero", ErrInvalidTransaction)
	}

	tx := Tx{
		FromID: fromID,
		ToID:   toID,
		Value:  value,
	}

	return tx, nil
}

// NewRewardTx constructs the credit the chain writes into the genesis
// block. It carries no sender, so it never passes through NewTx.
func NewRewardTx(toID AccountID, value uint64) (Tx, error) {
	if !toID.IsAccountID() {
		return Tx{}, fmt.Errorf("%w: to account is not properly formatted", ErrInvalidTransaction)
	}

	tx := Tx{
		ToID:  toID,
		Value: value,
	}

	return tx, nil
}

// IsReward reports whether the transaction is a chain constructed
// credit with no sender.
func (tx Tx) IsReward() bool {
	return tx.FromID == ""
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	if tx.IsReward() {
		return fmt.Sprintf("reward -> %s [%d]", tx.ToID, tx.Value)
	}

	return fmt.Sprintf("%s -> %s [%d]", tx.FromID, tx.ToID, tx.Value)
}
