// Package config holds the TOML configuration for the wallet tools and the
// network resolution logic: CLI overrides win over stored settings, and an
// incomplete network section yields a structured, machine-consumable prompt
// instead of a free-text error.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/x402-tools/paywallet/internal/utils"
)

// Config mirrors the config.toml layout. All network and payment fields are
// optional; pointers distinguish "unset" from zero values.
type Config struct {
	Wallet  WalletConfig  `toml:"wallet"`
	Network NetworkConfig `toml:"network"`
	Payment PaymentConfig `toml:"payment"`
}

type WalletConfig struct {
	Path         string `toml:"path"`
	PasswordFile string `toml:"password_file"`
}

type NetworkConfig struct {
	Name    *string `toml:"name,omitempty"`
	ChainID *uint64 `toml:"chain_id,omitempty"`
	RPCURL  *string `toml:"rpc_url,omitempty"`
}

type PaymentConfig struct {
	DefaultToken         *string `toml:"default_token,omitempty"`
	DefaultTokenSymbol   *string `toml:"default_token_symbol,omitempty"`
	DefaultTokenDecimals *uint8  `toml:"default_token_decimals,omitempty"`
	MaxAutoPayment       *string `toml:"max_auto_payment,omitempty"`
}

// Default returns a config with the wallet paths filled in from the per-OS
// app directories and everything else unset.
func Default(paths *utils.AppPaths) *Config {
	return &Config{
		Wallet: WalletConfig{
			Path:         paths.DefaultWalletPath(),
			PasswordFile: paths.DefaultPasswordPath(),
		},
	}
}

// Load reads the TOML config at path, or returns the defaults when the file
// does not exist. A missing config file is never an error.
func Load(path string, paths *utils.AppPaths) (*Config, error) {
	cfg := Default(paths)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	// Re-fill wallet paths if the file cleared them
	if cfg.Wallet.Path == "" {
		cfg.Wallet.Path = paths.DefaultWalletPath()
	}
	if cfg.Wallet.PasswordFile == "" {
		cfg.Wallet.PasswordFile = paths.DefaultPasswordPath()
	}

	return cfg, nil
}

// Save writes the config as TOML with owner-only permissions.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %v", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// WalletPath returns the configured keystore path with ~ expanded.
func (c *Config) WalletPath() string {
	return utils.ExpandTilde(c.Wallet.Path)
}

// PasswordPath returns the configured password file path with ~ expanded.
func (c *Config) PasswordPath() string {
	return utils.ExpandTilde(c.Wallet.PasswordFile)
}
