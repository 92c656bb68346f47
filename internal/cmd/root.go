package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/x402-tools/paywallet/internal/config"
	"github.com/x402-tools/paywallet/internal/utils"
)

var (
	configPath string
	appPaths   *utils.AppPaths
	cfg        *config.Config
	logger     *utils.LogsManager
)

var rootCmd = &cobra.Command{
	Use:   "paywallet",
	Short: "Ethereum-compatible payment wallet",
	Long: `Command-line wallet for x402-style payments on Ethereum-compatible networks.

Holds a single password-encrypted keystore, queries balances, and submits
native or ERC-20 transfers. Machine-readable results (address, transaction
hash, JSON) go to stdout; diagnostics go to stderr with a distinct exit code
per failure class.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local overrides; missing file is fine
		_ = godotenv.Load()

		appPaths = utils.GetAppPaths("")

		if configPath == "" {
			configPath = os.Getenv("PAYWALLET_CONFIG")
		}
		if configPath == "" {
			configPath = appPaths.DefaultConfigFilePath()
		}
		// Expand once; every later read and save uses the same resolved path
		configPath = utils.ExpandTilde(configPath)

		level := os.Getenv("PAYWALLET_LOG_LEVEL")
		if level == "" {
			level = "info"
		}
		logger = utils.NewLogsManager(appPaths.LogDir, "paywallet", level)

		var err error
		cfg, err = config.Load(configPath, appPaths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(11)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: per-OS app config dir)")
}
