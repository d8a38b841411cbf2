package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Remove every block and reset the store.",
	Run:   destroyRun,
}

func init() {
	rootCmd.AddCommand(destroyCmd)
}

func destroyRun(cmd *cobra.Command, args []string) {
	c, st, err := openChain()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	if err := c.Destroy(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Chain destroyed.")
}
