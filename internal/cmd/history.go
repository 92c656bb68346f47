package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/x402-tools/paywallet/internal/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transfers",
	Long:  "Print the locally recorded transfer history as JSON, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		sqlm, err := database.NewSQLiteManager(appPaths.DataDir, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open transfer history: %v\n", err)
			os.Exit(1)
		}
		defer sqlm.Close()

		transfers, err := sqlm.ListTransfers(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(transfers, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of transfers to list")
}
