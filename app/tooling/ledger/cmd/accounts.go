package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/ardanlabs/ledger/foundation/ledger/wallet"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List every keystore name with its account identifier.",
	Run:   accountsRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func accountsRun(cmd *cobra.Command, args []string) {
	accounts, err := wallet.Accounts(keystorePath)
	if err != nil {
		log.Fatal(err)
	}

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s: %s\n", name, accounts[name])
	}
}
