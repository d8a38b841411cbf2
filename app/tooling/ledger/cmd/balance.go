package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [ACCOUNT]",
	Short: "Print the balance of one account, or of every account.",
	Args:  cobra.MaximumNArgs(1),
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	c, st, err := openChain()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	if len(args) == 1 {
		account, err := resolveAccount(args[0])
		if err != nil {
			log.Fatal(err)
		}

		balance, err := c.Balance(account)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(balance)
		return
	}

	balances, err := c.Balances()
	if err != nil {
		log.Fatal(err)
	}

	accounts := make([]database.AccountID, 0, len(balances))
	for account := range balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	for _, account := range accounts {
		fmt.Printf("%s: %d\n", account, balances[account])
	}
}
