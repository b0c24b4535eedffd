// Package chain holds the network registry: the catalog of chains a form
// configuration can target. It carries metadata only; nothing here talks to
// a node.
package chain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Ecosystem identifiers. EVM is the only ecosystem with a built-in adapter;
// other ecosystems can be added through custom network entries once an
// adapter exists for them.
const (
	EcosystemEVM = "evm"
)

// Network describes one selectable target chain.
type Network struct {
	ID        string `json:"id"`   // slug, e.g. "ethereum-mainnet"
	Name      string `json:"name"` // display name, e.g. "Ethereum"
	Ecosystem string `json:"ecosystem"`
	ChainID   int64  `json:"chain_id"` // 0 for non-EVM
	Testnet   bool   `json:"testnet"`
	// ExplorerURL is the human-facing explorer; ExplorerAPIURLs are
	// etherscan-compatible API bases tried in order when fetching ABIs.
	ExplorerURL     string   `json:"explorer_url,omitempty"`
	ExplorerAPIURLs []string `json:"explorer_api_urls,omitempty"`
	NativeSymbol    string   `json:"native_symbol,omitempty"`
}

// Validate checks the fields required of any registry entry. Applied to
// custom config networks and synced catalog entries; built-ins are assumed
// well-formed.
func (n *Network) Validate() error {
	if n.ID == "" {
		return errors.New("network id is required")
	}
	if n.Name == "" {
		return fmt.Errorf("network %s: name is required", n.ID)
	}
	if n.Ecosystem == "" {
		return fmt.Errorf("network %s: ecosystem is required", n.ID)
	}
	if n.Ecosystem == EcosystemEVM && n.ChainID == 0 {
		return fmt.Errorf("network %s: evm networks require a chain id", n.ID)
	}
	return nil
}

// Registry resolves network ids to their metadata.
type Registry struct {
	networks  []Network
	byID      map[string]*Network
	byChainID map[int64]*Network
}

// NewRegistry builds the registry from the built-in networks plus any custom
// entries. A custom entry whose id matches a built-in replaces it.
func NewRegistry(custom ...Network) *Registry {
	networks := builtinNetworks()

	index := make(map[string]int, len(networks))
	for i, n := range networks {
		index[n.ID] = i
	}
	for _, c := range custom {
		if i, ok := index[c.ID]; ok {
			networks[i] = c
			continue
		}
		index[c.ID] = len(networks)
		networks = append(networks, c)
	}

	r := &Registry{
		networks:  networks,
		byID:      make(map[string]*Network, len(networks)),
		byChainID: make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byID[n.ID] = n
		if n.ChainID != 0 {
			if _, taken := r.byChainID[n.ChainID]; !taken {
				r.byChainID[n.ChainID] = n
			}
		}
	}
	return r
}

// List returns every network, mainnets first, then alphabetically by id.
func (r *Registry) List() []Network {
	out := make([]Network, len(r.networks))
	copy(out, r.networks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Testnet != out[j].Testnet {
			return !out[i].Testnet
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByID finds a network by its slug id (e.g. "ethereum-mainnet").
func (r *Registry) ByID(id string) (*Network, error) {
	n, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
	}
	return n, nil
}

// ByChainID finds an EVM network by its numeric chain id.
func (r *Registry) ByChainID(id int64) (*Network, error) {
	n, ok := r.byChainID[id]
	if !ok {
		return nil, fmt.Errorf("%w: chain id %d", ErrNetworkNotFound, id)
	}
	return n, nil
}

// ByEcosystem returns the networks of one ecosystem, in List order.
func (r *Registry) ByEcosystem(ecosystem string) []Network {
	var out []Network
	for _, n := range r.List() {
		if n.Ecosystem == ecosystem {
			out = append(out, n)
		}
	}
	return out
}

// --- built-in network data ---

func builtinNetworks() []Network {
	return []Network{
		// Ethereum
		{
			ID: "ethereum-mainnet", Name: "Ethereum", Ecosystem: EcosystemEVM, ChainID: 1,
			ExplorerURL:     "https://etherscan.io",
			ExplorerAPIURLs: []string{"https://eth.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "ethereum-sepolia", Name: "Ethereum Sepolia", Ecosystem: EcosystemEVM, ChainID: 11155111, Testnet: true,
			ExplorerURL:     "https://sepolia.etherscan.io",
			ExplorerAPIURLs: []string{"https://eth-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// Base
		{
			ID: "base-mainnet", Name: "Base", Ecosystem: EcosystemEVM, ChainID: 8453,
			ExplorerURL:     "https://basescan.org",
			ExplorerAPIURLs: []string{"https://base.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "base-sepolia", Name: "Base Sepolia", Ecosystem: EcosystemEVM, ChainID: 84532, Testnet: true,
			ExplorerURL:     "https://sepolia.basescan.org",
			ExplorerAPIURLs: []string{"https://base-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// Polygon
		{
			ID: "polygon-mainnet", Name: "Polygon", Ecosystem: EcosystemEVM, ChainID: 137,
			ExplorerURL:     "https://polygonscan.com",
			ExplorerAPIURLs: []string{"https://polygon.blockscout.com/api"},
			NativeSymbol:    "POL",
		},
		{
			ID: "polygon-amoy", Name: "Polygon Amoy", Ecosystem: EcosystemEVM, ChainID: 80002, Testnet: true,
			ExplorerURL:     "https://amoy.polygonscan.com",
			ExplorerAPIURLs: []string{"https://polygon-amoy.blockscout.com/api"},
			NativeSymbol:    "POL",
		},
		// Arbitrum
		{
			ID: "arbitrum-mainnet", Name: "Arbitrum", Ecosystem: EcosystemEVM, ChainID: 42161,
			ExplorerURL:     "https://arbiscan.io",
			ExplorerAPIURLs: []string{"https://arbitrum.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "arbitrum-sepolia", Name: "Arbitrum Sepolia", Ecosystem: EcosystemEVM, ChainID: 421614, Testnet: true,
			ExplorerURL:     "https://sepolia.arbiscan.io",
			ExplorerAPIURLs: []string{"https://arbitrum-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// Optimism
		{
			ID: "optimism-mainnet", Name: "Optimism", Ecosystem: EcosystemEVM, ChainID: 10,
			ExplorerURL:     "https://optimistic.etherscan.io",
			ExplorerAPIURLs: []string{"https://optimism.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "optimism-sepolia", Name: "Optimism Sepolia", Ecosystem: EcosystemEVM, ChainID: 11155420, Testnet: true,
			ExplorerURL:     "https://sepolia-optimism.etherscan.io",
			ExplorerAPIURLs: []string{"https://optimism-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// BNB Chain
		{
			ID: "bnb-mainnet", Name: "BNB Chain", Ecosystem: EcosystemEVM, ChainID: 56,
			ExplorerURL:     "https://bscscan.com",
			ExplorerAPIURLs: []string{"https://bsc.blockscout.com/api"},
			NativeSymbol:    "BNB",
		},
		{
			ID: "bnb-testnet", Name: "BNB Testnet", Ecosystem: EcosystemEVM, ChainID: 97, Testnet: true,
			ExplorerURL:     "https://testnet.bscscan.com",
			ExplorerAPIURLs: []string{"https://bsc-testnet.blockscout.com/api"},
			NativeSymbol:    "BNB",
		},
		// Avalanche
		{
			ID: "avalanche-mainnet", Name: "Avalanche", Ecosystem: EcosystemEVM, ChainID: 43114,
			ExplorerURL:     "https://snowtrace.io",
			ExplorerAPIURLs: []string{"https://avalanche.blockscout.com/api"},
			NativeSymbol:    "AVAX",
		},
		{
			ID: "avalanche-fuji", Name: "Avalanche Fuji", Ecosystem: EcosystemEVM, ChainID: 43113, Testnet: true,
			ExplorerURL:     "https://testnet.snowtrace.io",
			ExplorerAPIURLs: []string{"https://avalanche-fuji.blockscout.com/api"},
			NativeSymbol:    "AVAX",
		},
		// Linea
		{
			ID: "linea-mainnet", Name: "Linea", Ecosystem: EcosystemEVM, ChainID: 59144,
			ExplorerURL:     "https://lineascan.build",
			ExplorerAPIURLs: []string{"https://linea.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "linea-sepolia", Name: "Linea Sepolia", Ecosystem: EcosystemEVM, ChainID: 59141, Testnet: true,
			ExplorerURL:     "https://sepolia.lineascan.build",
			ExplorerAPIURLs: []string{"https://linea-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// Scroll
		{
			ID: "scroll-mainnet", Name: "Scroll", Ecosystem: EcosystemEVM, ChainID: 534352,
			ExplorerURL:     "https://scrollscan.com",
			ExplorerAPIURLs: []string{"https://scroll.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		{
			ID: "scroll-sepolia", Name: "Scroll Sepolia", Ecosystem: EcosystemEVM, ChainID: 534351, Testnet: true,
			ExplorerURL:     "https://sepolia.scrollscan.com",
			ExplorerAPIURLs: []string{"https://scroll-sepolia.blockscout.com/api"},
			NativeSymbol:    "ETH",
		},
		// Gnosis
		{
			ID: "gnosis-mainnet", Name: "Gnosis", Ecosystem: EcosystemEVM, ChainID: 100,
			ExplorerURL:     "https://gnosisscan.io",
			ExplorerAPIURLs: []string{"https://gnosis.blockscout.com/api"},
			NativeSymbol:    "xDAI",
		},
		{
			ID: "gnosis-chiado", Name: "Gnosis Chiado", Ecosystem: EcosystemEVM, ChainID: 10200, Testnet: true,
			ExplorerURL:     "https://gnosis-chiado.blockscout.com",
			ExplorerAPIURLs: []string{"https://gnosis-chiado.blockscout.com/api"},
			NativeSymbol:    "xDAI",
		},
	}
}
