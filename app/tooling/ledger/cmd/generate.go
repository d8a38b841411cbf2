package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/ledger/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate NAME",
	Short: "Generate a new private key in the keystore.",
	Args:  cobra.ExactArgs(1),
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	account, err := wallet.Generate(keystorePath, args[0])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(account)
}
