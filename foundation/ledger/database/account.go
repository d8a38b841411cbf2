package database

import "errors"

// AccountID represents an address identity on the chain. The chain
// treats these as opaque strings: any non-empty value is accepted,
// including the Base58Check output of the wallet package, and no
// structure beyond non-emptiness is ever validated.
type AccountID string

// ToAccountID converts a string to an account id, rejecting only the
// empty string.
func ToAccountID(s string) (AccountID, error) {
	a := AccountID(s)
	if !a.IsAccountID() {
		return "", errors.New("account id is empty")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a usable
// account id.
func (a AccountID) IsAccountID() bool {
	return a != ""
}
