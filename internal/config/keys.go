package config

import (
	"fmt"
	"strconv"
)

// configKey binds a dotted key path to typed accessors. The table is the
// single dispatch point for get/set, so an unknown key is a lookup failure
// rather than a silent fallthrough.
type configKey struct {
	get func(*Config) (string, bool)
	set func(*Config, string) error
}

var configKeys = map[string]configKey{
	"wallet.path": {
		get: func(c *Config) (string, bool) { return c.Wallet.Path, true },
		set: func(c *Config, v string) error { c.Wallet.Path = v; return nil },
	},
	"wallet.password_file": {
		get: func(c *Config) (string, bool) { return c.Wallet.PasswordFile, true },
		set: func(c *Config, v string) error { c.Wallet.PasswordFile = v; return nil },
	},
	"network.name": {
		get: func(c *Config) (string, bool) { return optStr(c.Network.Name) },
		set: func(c *Config, v string) error { c.Network.Name = strPtr(v); return nil },
	},
	"network.chain_id": {
		get: func(c *Config) (string, bool) {
			if c.Network.ChainID == nil {
				return "", false
			}
			return strconv.FormatUint(*c.Network.ChainID, 10), true
		},
		set: func(c *Config, v string) error {
			chainID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chain_id: %s", v)
			}
			c.Network.ChainID = u64Ptr(chainID)
			return nil
		},
	},
	"network.rpc_url": {
		get: func(c *Config) (string, bool) { return optStr(c.Network.RPCURL) },
		set: func(c *Config, v string) error { c.Network.RPCURL = strPtr(v); return nil },
	},
	"payment.default_token": {
		get: func(c *Config) (string, bool) { return optStr(c.Payment.DefaultToken) },
		set: func(c *Config, v string) error { c.Payment.DefaultToken = strPtr(v); return nil },
	},
	"payment.default_token_symbol": {
		get: func(c *Config) (string, bool) { return optStr(c.Payment.DefaultTokenSymbol) },
		set: func(c *Config, v string) error { c.Payment.DefaultTokenSymbol = strPtr(v); return nil },
	},
	"payment.default_token_decimals": {
		get: func(c *Config) (string, bool) {
			if c.Payment.DefaultTokenDecimals == nil {
				return "", false
			}
			return strconv.FormatUint(uint64(*c.Payment.DefaultTokenDecimals), 10), true
		},
		set: func(c *Config, v string) error {
			decimals, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				return fmt.Errorf("invalid decimals: %s", v)
			}
			c.Payment.DefaultTokenDecimals = u8Ptr(uint8(decimals))
			return nil
		},
	},
	"payment.max_auto_payment": {
		get: func(c *Config) (string, bool) { return optStr(c.Payment.MaxAutoPayment) },
		set: func(c *Config, v string) error { c.Payment.MaxAutoPayment = strPtr(v); return nil },
	},
}

// ValidKeys lists every recognized config key, in stable display order.
func ValidKeys() []string {
	return []string{
		"wallet.path",
		"wallet.password_file",
		"network.name",
		"network.chain_id",
		"network.rpc_url",
		"payment.default_token",
		"payment.default_token_symbol",
		"payment.default_token_decimals",
		"payment.max_auto_payment",
	}
}

// IsValidKey reports whether key is a recognized config key.
func IsValidKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// Get returns the value for a dotted key path. The second return is false
// when the key is valid but unset; unknown keys error.
func (c *Config) Get(key string) (string, bool, error) {
	entry, ok := configKeys[key]
	if !ok {
		return "", false, fmt.Errorf("unknown config key: %s", key)
	}
	value, set := entry.get(c)
	return value, set, nil
}

// Set assigns the value for a dotted key path. Unknown keys error.
func (c *Config) Set(key, value string) error {
	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	return entry.set(c, value)
}

func optStr(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
