package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/x402-tools/paywallet/internal/database"
	"github.com/x402-tools/paywallet/internal/payment"
)

var (
	payTo           string
	payAmount       string
	payToken        string
	payRPC          string
	payChainID      uint64
	payGasPrice     float64
	payWallet       string
	payPassword     string
	payPasswordFile string
	payAskPassword  bool
	payNoWait       bool
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Transfer tokens from the payment wallet",
	Long: `Submit a native or ERC-20 transfer.

The amount is entered in human units and converted using the token's decimal
count (extra fractional digits are truncated). The transaction hash is the
only stdout output; the exit code identifies the failure class.

Example:
  paywallet pay --to 0x1234... --amount 0.5`,
	Run: func(cmd *cobra.Command, args []string) {
		req := payment.Request{
			To:           payTo,
			Amount:       payAmount,
			Token:        payToken,
			RPCURL:       payRPC,
			WalletPath:   payWallet,
			Password:     payPassword,
			PasswordFile: payPasswordFile,
			NoWait:       payNoWait,
		}
		if cmd.Flags().Changed("chain-id") {
			req.ChainID = &payChainID
		}
		if cmd.Flags().Changed("gas-price") {
			req.GasPriceGwei = &payGasPrice
		}

		if payAskPassword {
			password, err := promptPassword("Enter wallet password: ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(20)
			}
			req.Password = password
		}

		engine := payment.NewEngine(cfg, logger)

		// History recording is best-effort; a broken local DB never blocks
		// a payment.
		if sqlm, err := database.NewSQLiteManager(appPaths.DataDir, logger); err == nil {
			defer sqlm.Close()
			engine.SetRecorder(sqlm)
		} else {
			logger.Warn(fmt.Sprintf("Transfer history unavailable: %v", err), "pay")
		}

		txHash, err := engine.Pay(cmd.Context(), req)
		if err != nil {
			var pe *payment.Error
			if errors.As(err, &pe) && pe.Detail != nil {
				if detail, jerr := json.MarshalIndent(pe.Detail, "", "  "); jerr == nil {
					fmt.Fprintln(os.Stderr, string(detail))
				}
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(payment.ExitCode(err))
		}

		fmt.Println(txHash)
	},
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().StringVar(&payTo, "to", "", "recipient Ethereum address (required)")
	payCmd.Flags().StringVar(&payAmount, "amount", "", "amount to transfer in human units (required)")
	payCmd.Flags().StringVar(&payToken, "token", "", "ERC-20 token contract address (omit for the configured default, or native transfer)")
	payCmd.Flags().StringVar(&payRPC, "rpc", "", "Ethereum RPC endpoint URL (uses config default if not specified)")
	payCmd.Flags().Uint64Var(&payChainID, "chain-id", 0, "expected chain ID (uses config default if not specified)")
	payCmd.Flags().Float64Var(&payGasPrice, "gas-price", 0, "gas price in Gwei (fetched from the network if not specified)")
	payCmd.Flags().StringVarP(&payWallet, "wallet", "w", "", "path to the wallet keystore file")
	payCmd.Flags().StringVar(&payPassword, "password", "", "wallet password")
	payCmd.Flags().StringVar(&payPasswordFile, "password-file", "", "read wallet password from file")
	payCmd.Flags().BoolVar(&payAskPassword, "ask-password", false, "prompt for the wallet password interactively")
	payCmd.Flags().BoolVar(&payNoWait, "no-wait", false, "don't wait for transaction confirmation")

	payCmd.MarkFlagRequired("to")
	payCmd.MarkFlagRequired("amount")
	payCmd.MarkFlagsMutuallyExclusive("password", "password-file", "ask-password")
}
