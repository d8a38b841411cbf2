// Package nameservice reads the keystore folder and creates a friendly
// name lookup for account identifiers.
package nameservice

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/wallet"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.AccountID]string
}

// New constructs a name service from the private keys found under the
// keystore folder. A missing folder yields an empty service; a node can
// run without any local names.
func New(keystorePath string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.AccountID]string),
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		return &ns, nil
	}

	accounts, err := wallet.Accounts(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}

	for name, account := range accounts {
		ns.accounts[account] = name
	}

	return &ns, nil
}

// Lookup returns the name for the specified account. An account without
// a key in the keystore maps to itself.
func (ns *NameService) Lookup(account database.AccountID) string {
	name, exists := ns.accounts[account]
	if !exists {
		return string(account)
	}

	return name
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}

	return cpy
}
