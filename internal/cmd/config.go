package cmd

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/x402-tools/paywallet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify the payment configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stderr, "Config file: %s\n\n", configPath)

		data, err := toml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to serialize config: %v\n", err)
			os.Exit(11)
		}
		fmt.Print(string(data))
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Long: `Print the value of one configuration key on stdout.

A valid but unset key prints nothing and exits 0, so scripts can distinguish
"not configured" from "unknown key".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, set, err := cfg.Get(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Run 'paywallet config list-keys' to see valid keys.\n")
			os.Exit(11)
		}
		if set {
			fmt.Println(value)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value> [<key> <value> ...]",
	Short: "Set one or more configuration values",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args)%2 != 0 {
			fmt.Fprintf(os.Stderr, "Error: arguments must be key/value pairs\n")
			os.Exit(20)
		}

		for i := 0; i < len(args); i += 2 {
			if err := cfg.Set(args[i], args[i+1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Run 'paywallet config list-keys' to see valid keys.\n")
				os.Exit(11)
			}
		}

		if err := cfg.Save(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(11)
		}

		for i := 0; i < len(args); i += 2 {
			fmt.Fprintf(os.Stderr, "Set %s = %s\n", args[i], args[i+1])
		}
	},
}

var configUseNetworkCmd = &cobra.Command{
	Use:   "use-network <network-name>",
	Short: "Apply a built-in network profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if err := cfg.ApplyNetworkProfile(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Run 'paywallet config list-networks' to see available networks.\n")
			os.Exit(20)
		}

		if err := cfg.Save(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(11)
		}

		profile, _ := config.FindNetworkProfile(name)
		fmt.Fprintf(os.Stderr, "Switched to network: %s\n", profile.Name)
		fmt.Fprintf(os.Stderr, "  Chain ID: %d\n", profile.ChainID)
		fmt.Fprintf(os.Stderr, "  RPC URL:  %s\n", profile.RPCURL)
		if profile.HasToken {
			fmt.Fprintf(os.Stderr, "  Token:    %s (%s, %d decimals)\n",
				profile.DefaultToken, profile.DefaultTokenSymbol, profile.DefaultTokenDecimals)
		} else {
			fmt.Fprintf(os.Stderr, "  Token:    none (native transfers only)\n")
		}
	},
}

var configListNetworksCmd = &cobra.Command{
	Use:   "list-networks",
	Short: "List the built-in network profiles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range config.NetworkProfiles {
			fmt.Printf("%s\n", p.Name)
			fmt.Printf("  chain_id: %d\n", p.ChainID)
			fmt.Printf("  rpc_url:  %s\n", p.RPCURL)
			if p.HasToken {
				fmt.Printf("  token:    %s (%s)\n", p.DefaultToken, p.DefaultTokenSymbol)
			}
		}
	},
}

var configListKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List the valid configuration keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range config.ValidKeys() {
			fmt.Println(key)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUseNetworkCmd)
	configCmd.AddCommand(configListNetworksCmd)
	configCmd.AddCommand(configListKeysCmd)
}
