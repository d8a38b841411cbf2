package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	from  string
	to    string
	value uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mine a block that moves value between two accounts.",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sending account or keystore name.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Receiving account or keystore name.")
	sendCmd.Flags().Uint64Var(&value, "value", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	fromID, err := resolveAccount(from)
	if err != nil {
		log.Fatal(err)
	}

	toID, err := resolveAccount(to)
	if err != nil {
		log.Fatal(err)
	}

	c, st, err := openChain()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	blockData, err := c.Send(fromID, toID, value)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Accepted block %d: %s\n", blockData.Header.Number, blockData.Hash)
}
