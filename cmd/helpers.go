package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3forms/internal/adapter"
	"github.com/Mohsinsiddi/w3forms/internal/adapter/evm"
	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/explorer"
	"github.com/Mohsinsiddi/w3forms/internal/secrets"
	"github.com/Mohsinsiddi/w3forms/internal/store"
	"github.com/Mohsinsiddi/w3forms/internal/ui"
)

// newChainRegistry merges custom networks from networks.json over the
// built-in catalog.
func newChainRegistry() (*chain.Registry, error) {
	nf, err := cfg.LoadNetworks()
	if err != nil {
		return nil, fmt.Errorf("loading networks: %w", err)
	}
	return chain.NewRegistry(nf.Networks...), nil
}

func newAdapterRegistry() *adapter.Registry {
	return adapter.NewRegistry(evm.New())
}

// newLoader wires the definition loader: the EVM adapter parses, explorer
// sources fetch. Networks without a usable explorer source get a nil
// fetcher, which disables the fetch path but keeps manual loads working.
func newLoader(networks *chain.Registry) *contract.Loader {
	keyFor := secrets.KeyFor(secrets.DefaultKeystore())
	fetcherFor := func(networkID string) contract.Fetcher {
		net, err := networks.ByID(networkID)
		if err != nil {
			return nil
		}
		sources := explorer.BuildSources(net, keyFor)
		if len(sources) == 0 {
			return nil
		}
		return explorer.NewRegistry(sources...)
	}
	return contract.NewLoader(evm.New(), fetcherFor)
}

// openRecords opens the bolt-backed record store. Callers must Close it.
func openRecords() (store.Store, error) {
	st, err := store.NewBoltStore(cfg.StoreFile())
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	return st, nil
}

// resolveRecordID turns an optional positional argument into a full record
// id. Arguments may be unique id prefixes (the shortened form `list`
// prints); with no argument the stored records go into an interactive
// picker.
func resolveRecordID(ctx context.Context, records store.Store, args []string) (string, error) {
	if len(args) > 0 {
		arg := args[0]
		if _, err := records.Get(ctx, arg); err == nil {
			return arg, nil
		}
		all, err := records.List(ctx)
		if err != nil {
			return "", err
		}
		var matches []string
		for _, rec := range all {
			if strings.HasPrefix(rec.ID, arg) {
				matches = append(matches, rec.ID)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
			return "", &store.NotFoundError{ID: arg}
		default:
			return "", fmt.Errorf("id prefix %q matches %d records; use more characters", arg, len(matches))
		}
	}

	all, err := records.List(ctx)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", fmt.Errorf("no saved forms yet; run `w3forms build` to create one")
	}

	return ui.PickItem("Pick a form", ui.RecordPickerItems(all))
}
