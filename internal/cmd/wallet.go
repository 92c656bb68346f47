package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/x402-tools/paywallet/internal/payment"
	"github.com/x402-tools/paywallet/internal/utils"
	"github.com/x402-tools/paywallet/internal/wallet"
)

var (
	walletPassword     string
	walletPasswordFile string
	walletAskPassword  bool
	walletOutput       string
	walletPath         string
	forceWallet        bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the payment wallet keystore",
	Long: `Manage the encrypted payment wallet.

The wallet is a single password-encrypted Web3 keystore file. Its public
address stays readable without the password; the private key is decrypted
fresh for each payment and never cached.`,
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new payment wallet",
	Long: `Create a new Ethereum-compatible wallet.

The keystore is encrypted with the given password, or with an auto-generated
32-character password saved next to the wallet when none is provided. Only
the wallet address is printed to stdout.

Example:
  paywallet wallet create --password-file ./secret.txt -o ./wallet.json`,
	Run: func(cmd *cobra.Command, args []string) {
		outputPath := walletOutput
		if outputPath == "" {
			outputPath = cfg.WalletPath()
		} else {
			outputPath = utils.ExpandTilde(outputPath)
		}

		// No implicit overwrite: --force removes the old file explicitly
		if wallet.Exists(outputPath) {
			if forceWallet {
				if err := os.Remove(outputPath); err != nil {
					fmt.Fprintf(os.Stderr, "Error: failed to remove existing wallet: %v\n", err)
					os.Exit(1)
				}
				fmt.Fprintf(os.Stderr, "Removed existing wallet at %s\n", outputPath)
			} else {
				fmt.Fprintf(os.Stderr, "Error: Wallet already exists at %s\nUse --force to overwrite.\n", outputPath)
				os.Exit(1)
			}
		}

		password, err := resolveCreatePassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(20)
		}

		info, err := wallet.Create(wallet.CreateOptions{
			Password:         password,
			OutputPath:       outputPath,
			PasswordSavePath: cfg.PasswordPath(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// The address is the only stdout output
		fmt.Println(info.Address)

		fmt.Fprintln(os.Stderr, "Wallet created successfully!")
		fmt.Fprintf(os.Stderr, "Keystore: %s\n", info.Path)
		if info.GeneratedPassword {
			fmt.Fprintf(os.Stderr, "Password saved to: %s\n", info.PasswordPath)
			fmt.Fprintln(os.Stderr, "\nIMPORTANT: Keep your password file secure!")
		}
		fmt.Fprintln(os.Stderr, "\nFund this address to enable payments.")
	},
}

// walletInfo is the address command's stdout payload.
type walletInfo struct {
	Address     string `json:"address"`
	Balance     string `json:"balance,omitempty"`
	Token       string `json:"token,omitempty"`
	TokenSymbol string `json:"token_symbol,omitempty"`
	Network     string `json:"network,omitempty"`
}

var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the wallet address and token balance",
	Long: `Read the public address from the wallet keystore and print it as JSON,
together with the default-token balance when the network is configured.

Does NOT require the wallet password.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := walletPath
		if path == "" {
			path = cfg.WalletPath()
		} else {
			path = utils.ExpandTilde(path)
		}

		address, err := wallet.Address(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, wallet.ErrWalletNotFound) {
				os.Exit(12)
			}
			os.Exit(1)
		}

		info := walletInfo{Address: address}

		if cfg.Network.RPCURL != nil && cfg.Payment.DefaultToken != nil {
			decimals := uint8(6)
			if cfg.Payment.DefaultTokenDecimals != nil {
				decimals = *cfg.Payment.DefaultTokenDecimals
			}

			balance, err := fetchTokenBalance(cmd.Context(), address, *cfg.Network.RPCURL, *cfg.Payment.DefaultToken, decimals)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Could not fetch balance: %v\n", err)
			} else {
				info.Balance = balance
			}

			info.Token = *cfg.Payment.DefaultToken
			if cfg.Payment.DefaultTokenSymbol != nil {
				info.TokenSymbol = *cfg.Payment.DefaultTokenSymbol
			}
			if cfg.Network.Name != nil {
				info.Network = *cfg.Network.Name
			}
		}

		out, err := json.MarshalIndent(&info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serializing wallet info: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

var walletStorePasswordCmd = &cobra.Command{
	Use:   "store-password",
	Short: "Save the wallet password in the OS keyring",
	Long: `Copy the wallet password into the operating system keyring, keyed by the
wallet address. The pay command falls back to the keyring when no password
source is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := walletPath
		if path == "" {
			path = cfg.WalletPath()
		} else {
			path = utils.ExpandTilde(path)
		}

		address, err := wallet.Address(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, wallet.ErrWalletNotFound) {
				os.Exit(12)
			}
			os.Exit(1)
		}

		password, err := resolveStoredPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(20)
		}

		// Verify the password against the keystore before storing it
		key, err := wallet.Decrypt(path, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		wallet.ZeroKey(key.PrivateKey)

		if err := wallet.StoreKeyringPassword(address, password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Password for %s stored in OS keyring.\n", address)
	},
}

// resolveCreatePassword picks the creation password: explicit flag, password
// file, interactive prompt, or empty to auto-generate.
func resolveCreatePassword() (string, error) {
	if walletPassword != "" {
		return walletPassword, nil
	}
	if walletPasswordFile != "" {
		return wallet.LoadPassword(utils.ExpandTilde(walletPasswordFile))
	}
	if walletAskPassword {
		password, err := promptPassword("Enter password to encrypt wallet: ")
		if err != nil {
			return "", err
		}
		confirmed, err := promptPassword("Confirm password: ")
		if err != nil {
			return "", err
		}
		if password != confirmed {
			return "", fmt.Errorf("passwords do not match")
		}
		return password, nil
	}
	return "", nil
}

// resolveStoredPassword picks the password for store-password: explicit flag,
// password file, configured password file, interactive prompt.
func resolveStoredPassword() (string, error) {
	if walletPassword != "" {
		return walletPassword, nil
	}
	if walletPasswordFile != "" {
		return wallet.LoadPassword(utils.ExpandTilde(walletPasswordFile))
	}
	if configured := cfg.PasswordPath(); wallet.Exists(configured) {
		return wallet.LoadPassword(configured)
	}
	return promptPassword("Enter wallet password: ")
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %v", err)
	}
	return string(passwordBytes), nil
}

func fetchTokenBalance(ctx context.Context, address, rpcURL, tokenAddr string, decimals uint8) (string, error) {
	if !common.IsHexAddress(tokenAddr) {
		return "", fmt.Errorf("invalid token address: %s", tokenAddr)
	}

	client, err := payment.Dial(rpcURL)
	if err != nil {
		return "", err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	balance, err := client.TokenBalance(ctx, common.HexToAddress(tokenAddr), common.HexToAddress(address))
	if err != nil {
		return "", err
	}

	return payment.RawToHuman(balance.String(), decimals), nil
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletAddressCmd)
	walletCmd.AddCommand(walletStorePasswordCmd)

	walletCreateCmd.Flags().StringVar(&walletPassword, "password", "", "password to encrypt the wallet (auto-generated if not provided)")
	walletCreateCmd.Flags().StringVar(&walletPasswordFile, "password-file", "", "read password from file")
	walletCreateCmd.Flags().BoolVar(&walletAskPassword, "ask-password", false, "prompt for the password interactively")
	walletCreateCmd.Flags().StringVarP(&walletOutput, "output", "o", "", "output path for the wallet keystore file")
	walletCreateCmd.Flags().BoolVarP(&forceWallet, "force", "f", false, "overwrite an existing wallet")
	walletCreateCmd.MarkFlagsMutuallyExclusive("password", "password-file", "ask-password")

	walletAddressCmd.Flags().StringVarP(&walletPath, "wallet", "w", "", "path to the wallet keystore file")

	walletStorePasswordCmd.Flags().StringVarP(&walletPath, "wallet", "w", "", "path to the wallet keystore file")
	walletStorePasswordCmd.Flags().StringVar(&walletPassword, "password", "", "wallet password")
	walletStorePasswordCmd.Flags().StringVar(&walletPasswordFile, "password-file", "", "read wallet password from file")
	walletStorePasswordCmd.MarkFlagsMutuallyExclusive("password", "password-file")
}
