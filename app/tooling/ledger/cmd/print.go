package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print every block from genesis to the tip.",
	Run:   printRun,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func printRun(cmd *cobra.Command, args []string) {
	c, st, err := openChain()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	gen, err := c.Genesis()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Chain created %s, difficulty %d bits, reward %d\n",
		gen.Date.Format(time.RFC3339), gen.DifficultyBits, gen.Reward)

	it, err := c.ForEach()
	if err != nil {
		log.Fatal(err)
	}

	for !it.Done() {
		blockData, err := it.Next()
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Block %d: %s\n", blockData.Header.Number, blockData.Hash)
		fmt.Println("  Time :", time.Unix(int64(blockData.Header.TimeStamp), 0).UTC().Format(time.RFC3339))
		if blockData.Header.PrevBlockHash != "" {
			fmt.Println("  Prev :", blockData.Header.PrevBlockHash)
		}
		fmt.Println("  Nonce:", blockData.Header.Nonce)
		for _, tx := range blockData.Trans {
			fmt.Println("  Tx   :", tx)
		}
	}
}
