// Package cmd contains the ledger command line app.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/ardanlabs/ledger/foundation/ledger/store/leveldb"
	"github.com/ardanlabs/ledger/foundation/ledger/store/sqlite"
	"github.com/ardanlabs/ledger/foundation/ledger/wallet"
	"github.com/spf13/cobra"
)

var (
	dbPath       string
	storeBackend string
	keystorePath string
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db-path", "d", "zblock/ledger.db", "Path to the chain store.")
	rootCmd.PersistentFlags().StringVarP(&storeBackend, "backend", "b", "leveldb", "Store backend: leveldb | sqlite.")
	rootCmd.PersistentFlags().StringVarP(&keystorePath, "keystore-path", "k", "zblock/accounts", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print chain and mining events.")
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Single node ledger over a proof of work chain",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ev prints chain and mining events when the verbose flag is set.
func ev(v string, args ...any) {
	if verbose {
		fmt.Printf(v+"\n", args...)
	}
}

// openChain opens the configured store and the chain over it. The
// caller closes the returned store. A corrupt chain is reported but
// still returned so the destroy command can recover it.
func openChain() (*chain.Chain, store.Store, error) {
	var backend store.Store
	var err error

	switch storeBackend {
	case "leveldb":
		backend, err = leveldb.New(dbPath)
	case "sqlite":
		backend, err = sqlite.New(dbPath)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", storeBackend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	c, err := chain.Open(chain.Config{
		Store:          backend,
		DifficultyBits: difficultyBits,
		Reward:         reward,
		EvHandler:      ev,
	})
	if err != nil {
		var cce *chain.CorruptChainError
		if !errors.As(err, &cce) {
			backend.Close()
			return nil, nil, err
		}
		fmt.Println("WARNING:", cce)
	}

	return c, backend, nil
}

// resolveAccount maps a keystore name to its account identifier.
// Anything that is not a keystore name passes through as a literal
// account identifier.
func resolveAccount(nameOrAccount string) (database.AccountID, error) {
	if account, err := wallet.LookupAddress(keystorePath, nameOrAccount); err == nil {
		return account, nil
	}

	return database.ToAccountID(nameOrAccount)
}
