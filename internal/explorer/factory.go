package explorer

import (
	"github.com/Mohsinsiddi/w3forms/internal/chain"
)

// BuildSources assembles the source list for a network, in priority order:
//
//  1. Etherscan V2, if an "etherscan" key is configured
//  2. BlockScout over the network's explorer API URLs (free); networks
//     with several candidate bases go through the endpoint picker
//
// Constructors that return nil (missing key, missing URL) are filtered out.
// keyFor resolves a provider name to an API key; nil means no keys.
func BuildSources(net *chain.Network, keyFor func(provider string) string) []Source {
	var sources []Source

	if keyFor != nil {
		if e := NewEtherscan(net.ChainID, keyFor("etherscan")); e != nil {
			sources = append(sources, e)
		}
	}

	switch len(net.ExplorerAPIURLs) {
	case 0:
	case 1:
		if b := NewBlockScout(net.ExplorerAPIURLs[0]); b != nil {
			sources = append(sources, b)
		}
	default:
		// Several candidate bases: probe and cache a healthy one instead
		// of burning a full fetch timeout on each dead base in turn.
		if b := NewPickedBlockScout(net.ExplorerAPIURLs); b != nil {
			sources = append(sources, b)
		}
	}

	return sources
}
