package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	difficultyBits uint
	reward         uint64
)

var createCmd = &cobra.Command{
	Use:   "create ACCOUNT",
	Short: "Create the chain and credit the genesis reward to ACCOUNT.",
	Args:  cobra.ExactArgs(1),
	Run:   createRun,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().UintVar(&difficultyBits, "bits", 0, "Difficulty bits for the proof of work. Zero keeps the default.")
	createCmd.Flags().Uint64Var(&reward, "reward", 0, "Genesis reward. Zero keeps the default.")
}

func createRun(cmd *cobra.Command, args []string) {
	account, err := resolveAccount(args[0])
	if err != nil {
		log.Fatal(err)
	}

	c, st, err := openChain()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	blockData, err := c.Create(account)
	if err != nil {
		log.Fatal(err)
	}

	gen, err := c.Genesis()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Chain created.")
	fmt.Println("Genesis block:", blockData.Hash)
	fmt.Printf("Credited %d to %s\n", gen.Reward, account)
}
