package config

// NetworkOverrides carries caller-supplied network settings. Zero values
// mean "not provided".
type NetworkOverrides struct {
	RPCURL  string
	ChainID *uint64
}

// ResolvedNetwork is a complete network configuration: both fields are
// guaranteed present once Resolve succeeds.
type ResolvedNetwork struct {
	Name    string
	ChainID uint64
	RPCURL  string
}

// ResolveNetwork combines CLI overrides with the stored config, CLI winning.
// When the resolved settings are still missing rpc_url or chain_id it
// returns a structured prompt instead of a network.
func (c *Config) ResolveNetwork(ov NetworkOverrides) (*ResolvedNetwork, *MissingConfigPrompt) {
	net := &ResolvedNetwork{}
	if c.Network.Name != nil {
		net.Name = *c.Network.Name
	}

	var missing []string

	switch {
	case ov.RPCURL != "":
		net.RPCURL = ov.RPCURL
	case c.Network.RPCURL != nil:
		net.RPCURL = *c.Network.RPCURL
	default:
		missing = append(missing, "network.rpc_url")
	}

	switch {
	case ov.ChainID != nil:
		net.ChainID = *ov.ChainID
	case c.Network.ChainID != nil:
		net.ChainID = *c.Network.ChainID
	default:
		missing = append(missing, "network.chain_id")
	}

	if len(missing) > 0 {
		return nil, newMissingConfigPrompt(missing)
	}

	return net, nil
}
