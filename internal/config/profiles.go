package config

import "fmt"

// NetworkProfile is a named bundle of network settings. Applying a profile
// overwrites only the fields the profile defines; fields it leaves unset are
// never cleared.
type NetworkProfile struct {
	Name                 string
	ChainID              uint64
	RPCURL               string
	DefaultToken         string
	DefaultTokenSymbol   string
	DefaultTokenDecimals uint8
	HasToken             bool
}

// NetworkProfiles lists the built-in network profiles.
var NetworkProfiles = []NetworkProfile{
	{
		Name:                 "base-sepolia",
		ChainID:              84532,
		RPCURL:               "https://sepolia.base.org",
		DefaultToken:         "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		DefaultTokenSymbol:   "USDC",
		DefaultTokenDecimals: 6,
		HasToken:             true,
	},
	{
		Name:                 "base-mainnet",
		ChainID:              8453,
		RPCURL:               "https://mainnet.base.org",
		DefaultToken:         "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		DefaultTokenSymbol:   "USDC",
		DefaultTokenDecimals: 6,
		HasToken:             true,
	},
	{
		Name:    "ethereum-sepolia",
		ChainID: 11155111,
		RPCURL:  "https://rpc.sepolia.org",
	},
	{
		Name:                 "ethereum-mainnet",
		ChainID:              1,
		RPCURL:               "https://eth.llamarpc.com",
		DefaultToken:         "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		DefaultTokenSymbol:   "USDC",
		DefaultTokenDecimals: 6,
		HasToken:             true,
	},
}

// FindNetworkProfile looks up a profile by name.
func FindNetworkProfile(name string) (*NetworkProfile, bool) {
	for i := range NetworkProfiles {
		if NetworkProfiles[i].Name == name {
			return &NetworkProfiles[i], true
		}
	}
	return nil, false
}

// ApplyNetworkProfile overwrites the network section (and payment defaults,
// when the profile carries a token) from a named profile.
func (c *Config) ApplyNetworkProfile(name string) error {
	profile, ok := FindNetworkProfile(name)
	if !ok {
		return fmt.Errorf("unknown network profile: %s", name)
	}

	c.Network.Name = strPtr(profile.Name)
	c.Network.ChainID = u64Ptr(profile.ChainID)
	c.Network.RPCURL = strPtr(profile.RPCURL)

	if profile.HasToken {
		c.Payment.DefaultToken = strPtr(profile.DefaultToken)
		c.Payment.DefaultTokenSymbol = strPtr(profile.DefaultTokenSymbol)
		c.Payment.DefaultTokenDecimals = u8Ptr(profile.DefaultTokenDecimals)
	}

	return nil
}

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }
func u8Ptr(v uint8) *uint8    { return &v }
