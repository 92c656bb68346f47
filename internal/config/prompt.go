package config

// MissingConfigPrompt is the machine-consumable remediation request emitted
// when payment-critical network settings are absent. It is printed as JSON on
// the diagnostic channel so a driving caller can react programmatically.
type MissingConfigPrompt struct {
	Error         string           `json:"error"`
	MissingFields []string         `json:"missing_fields"`
	Prompt        string           `json:"prompt"`
	Questions     []ConfigQuestion `json:"questions"`
	Hint          string           `json:"hint"`
}

// ConfigQuestion describes one decision the caller must make.
type ConfigQuestion struct {
	Field    string   `json:"field"`
	Question string   `json:"question"`
	Examples []string `json:"examples"`
	Default  string   `json:"default,omitempty"`
}

// CheckNetworkConfig verifies the settings a payment needs. rpc_url and
// chain_id are mandatory; a nil return means the network section is complete.
func (c *Config) CheckNetworkConfig() *MissingConfigPrompt {
	var missing []string

	if c.Network.RPCURL == nil {
		missing = append(missing, "network.rpc_url")
	}
	if c.Network.ChainID == nil {
		missing = append(missing, "network.chain_id")
	}

	if len(missing) == 0 {
		return nil
	}

	return newMissingConfigPrompt(missing)
}

func newMissingConfigPrompt(missing []string) *MissingConfigPrompt {
	return &MissingConfigPrompt{
		Error:         "missing_config",
		MissingFields: missing,
		Prompt:        "Configuration is incomplete. Please configure the network settings.",
		Questions: []ConfigQuestion{
			{
				Field:    "network",
				Question: "Which blockchain network should be used for payments?",
				Examples: []string{"base-sepolia", "base-mainnet", "ethereum-mainnet"},
				Default:  "base-sepolia",
			},
		},
		Hint: "Run: paywallet config use-network <network-name>",
	}
}
