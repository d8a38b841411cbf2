package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/ledger/wallet"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address NAME",
	Short: "Print the account identifier for a keystore name.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account, err := wallet.LookupAddress(keystorePath, args[0])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(account)
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
