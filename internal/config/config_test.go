package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/x402-tools/paywallet/internal/utils"
)

func testPaths(t *testing.T) *utils.AppPaths {
	t.Helper()
	dir := t.TempDir()
	return &utils.AppPaths{
		AppDir:    dir,
		ConfigDir: dir,
		LogDir:    dir,
		DataDir:   dir,
		TempDir:   dir,
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	paths := testPaths(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), paths)
	if err != nil {
		t.Fatalf("Load() on missing file failed: %v", err)
	}
	if cfg.Wallet.Path != paths.DefaultWalletPath() {
		t.Errorf("default wallet path = %q, want %q", cfg.Wallet.Path, paths.DefaultWalletPath())
	}
	if cfg.Network.RPCURL != nil {
		t.Errorf("default config has rpc_url %q, want unset", *cfg.Network.RPCURL)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	paths := testPaths(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default(paths)
	if err := cfg.ApplyNetworkProfile("base-sepolia"); err != nil {
		t.Fatalf("ApplyNetworkProfile() failed: %v", err)
	}
	if err := cfg.Set("payment.max_auto_payment", "10"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	fi, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %o, want 0600", fi.Mode().Perm())
	}

	loaded, err := Load(configPath, paths)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Network.Name == nil || *loaded.Network.Name != "base-sepolia" {
		t.Error("network.name did not survive the round trip")
	}
	if loaded.Network.ChainID == nil || *loaded.Network.ChainID != 84532 {
		t.Error("network.chain_id did not survive the round trip")
	}
	if loaded.Payment.MaxAutoPayment == nil || *loaded.Payment.MaxAutoPayment != "10" {
		t.Error("payment.max_auto_payment did not survive the round trip")
	}
}

func TestApplyNetworkProfile(t *testing.T) {
	paths := testPaths(t)

	t.Run("profile with token", func(t *testing.T) {
		cfg := Default(paths)
		if err := cfg.ApplyNetworkProfile("base-sepolia"); err != nil {
			t.Fatalf("ApplyNetworkProfile() failed: %v", err)
		}
		if cfg.Network.ChainID == nil || *cfg.Network.ChainID != 84532 {
			t.Error("chain_id not applied")
		}
		if cfg.Payment.DefaultToken == nil || !strings.EqualFold(*cfg.Payment.DefaultToken, "0x036CbD53842c5426634e7929541eC2318f3dCF7e") {
			t.Error("default_token not applied")
		}
		if cfg.Payment.DefaultTokenDecimals == nil || *cfg.Payment.DefaultTokenDecimals != 6 {
			t.Error("default_token_decimals not applied")
		}
	})

	t.Run("profile without token keeps existing token", func(t *testing.T) {
		cfg := Default(paths)
		if err := cfg.ApplyNetworkProfile("base-sepolia"); err != nil {
			t.Fatalf("ApplyNetworkProfile() failed: %v", err)
		}
		if err := cfg.ApplyNetworkProfile("ethereum-sepolia"); err != nil {
			t.Fatalf("ApplyNetworkProfile() failed: %v", err)
		}
		if cfg.Network.ChainID == nil || *cfg.Network.ChainID != 11155111 {
			t.Error("chain_id not applied")
		}
		// A tokenless profile must not clear payment settings
		if cfg.Payment.DefaultToken == nil {
			t.Error("default_token was cleared by a tokenless profile")
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		cfg := Default(paths)
		if err := cfg.ApplyNetworkProfile("no-such-network"); err == nil {
			t.Error("ApplyNetworkProfile() should fail for an unknown profile")
		}
	})
}

func TestConfigKeys(t *testing.T) {
	paths := testPaths(t)
	cfg := Default(paths)

	t.Run("unknown key", func(t *testing.T) {
		if _, _, err := cfg.Get("network.bogus"); err == nil {
			t.Error("Get() should fail for an unknown key")
		}
		if err := cfg.Set("network.bogus", "x"); err == nil {
			t.Error("Set() should fail for an unknown key")
		}
	})

	t.Run("valid but unset key", func(t *testing.T) {
		value, set, err := cfg.Get("network.rpc_url")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if set || value != "" {
			t.Errorf("Get() on unset key = (%q, %v), want empty and unset", value, set)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := cfg.Set("network.chain_id", "8453"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		value, set, err := cfg.Get("network.chain_id")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if !set || value != "8453" {
			t.Errorf("Get() = (%q, %v), want (\"8453\", true)", value, set)
		}
	})

	t.Run("invalid numeric value", func(t *testing.T) {
		if err := cfg.Set("network.chain_id", "not-a-number"); err == nil {
			t.Error("Set() should reject a non-numeric chain_id")
		}
		if err := cfg.Set("payment.default_token_decimals", "300"); err == nil {
			t.Error("Set() should reject decimals above uint8 range")
		}
	})

	t.Run("every listed key resolves", func(t *testing.T) {
		for _, key := range ValidKeys() {
			if !IsValidKey(key) {
				t.Errorf("ValidKeys() lists %q but IsValidKey() rejects it", key)
			}
			if _, _, err := cfg.Get(key); err != nil {
				t.Errorf("Get(%q) failed: %v", key, err)
			}
		}
	})
}

func TestResolveNetwork(t *testing.T) {
	paths := testPaths(t)

	t.Run("overrides win over stored config", func(t *testing.T) {
		cfg := Default(paths)
		if err := cfg.ApplyNetworkProfile("base-sepolia"); err != nil {
			t.Fatalf("ApplyNetworkProfile() failed: %v", err)
		}

		chainID := uint64(1)
		net, prompt := cfg.ResolveNetwork(NetworkOverrides{
			RPCURL:  "http://localhost:8545",
			ChainID: &chainID,
		})
		if prompt != nil {
			t.Fatalf("ResolveNetwork() returned a prompt: %v", prompt.MissingFields)
		}
		if net.RPCURL != "http://localhost:8545" {
			t.Errorf("resolved rpc_url = %q, want the override", net.RPCURL)
		}
		if net.ChainID != 1 {
			t.Errorf("resolved chain_id = %d, want the override 1", net.ChainID)
		}
	})

	t.Run("stored config alone is enough", func(t *testing.T) {
		cfg := Default(paths)
		if err := cfg.ApplyNetworkProfile("base-mainnet"); err != nil {
			t.Fatalf("ApplyNetworkProfile() failed: %v", err)
		}

		net, prompt := cfg.ResolveNetwork(NetworkOverrides{})
		if prompt != nil {
			t.Fatalf("ResolveNetwork() returned a prompt: %v", prompt.MissingFields)
		}
		if net.ChainID != 8453 {
			t.Errorf("resolved chain_id = %d, want 8453", net.ChainID)
		}
	})

	t.Run("missing settings yield a prompt", func(t *testing.T) {
		cfg := Default(paths)

		_, prompt := cfg.ResolveNetwork(NetworkOverrides{})
		if prompt == nil {
			t.Fatal("ResolveNetwork() should return a prompt for an empty config")
		}
		if prompt.Error != "missing_config" {
			t.Errorf("prompt.Error = %q, want %q", prompt.Error, "missing_config")
		}
		if len(prompt.MissingFields) != 2 {
			t.Errorf("prompt lists %d missing fields, want 2", len(prompt.MissingFields))
		}
		if len(prompt.Questions) == 0 || prompt.Hint == "" {
			t.Error("prompt should carry questions and a hint")
		}
	})

	t.Run("partial override still prompts", func(t *testing.T) {
		cfg := Default(paths)

		_, prompt := cfg.ResolveNetwork(NetworkOverrides{RPCURL: "http://localhost:8545"})
		if prompt == nil {
			t.Fatal("ResolveNetwork() should prompt when chain_id is still missing")
		}
		if len(prompt.MissingFields) != 1 || prompt.MissingFields[0] != "network.chain_id" {
			t.Errorf("prompt.MissingFields = %v, want [network.chain_id]", prompt.MissingFields)
		}
	})
}

func TestCheckNetworkConfig(t *testing.T) {
	paths := testPaths(t)

	cfg := Default(paths)
	if prompt := cfg.CheckNetworkConfig(); prompt == nil {
		t.Error("CheckNetworkConfig() should flag an empty network section")
	}

	if err := cfg.ApplyNetworkProfile("base-sepolia"); err != nil {
		t.Fatalf("ApplyNetworkProfile() failed: %v", err)
	}
	if prompt := cfg.CheckNetworkConfig(); prompt != nil {
		t.Errorf("CheckNetworkConfig() flagged a complete config: %v", prompt.MissingFields)
	}
}
