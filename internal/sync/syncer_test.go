package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func testSyncConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func testSyncer(t *testing.T) (*Syncer, *config.Config) {
	t.Helper()
	cfg := testSyncConfig(t)
	return New(cfg), cfg
}

func manifestServer(t *testing.T, m Manifest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m) //nolint:errcheck
	}))
}

func anvilNetwork() chain.Network {
	return chain.Network{
		ID:           "anvil",
		Name:         "Anvil",
		Ecosystem:    "evm",
		ChainID:      31337,
		Testnet:      true,
		NativeSymbol: "ETH",
	}
}

// ---------------------------------------------------------------------------
// Manifest struct JSON parsing
// ---------------------------------------------------------------------------

func TestManifestParseValid(t *testing.T) {
	data := `{
		"version": 1,
		"networks": [
			{"id": "anvil", "name": "Anvil", "ecosystem": "evm", "chain_id": 31337, "testnet": true},
			{"id": "megaeth-testnet", "name": "MegaETH Testnet", "ecosystem": "evm", "chain_id": 6342, "testnet": true}
		]
	}`

	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(data), &m))

	assert.Equal(t, 1, m.Version)
	require.Len(t, m.Networks, 2)
	assert.Equal(t, "anvil", m.Networks[0].ID)
	assert.Equal(t, int64(31337), m.Networks[0].ChainID)
	assert.True(t, m.Networks[1].Testnet)
}

func TestManifestParseInvalid(t *testing.T) {
	var m Manifest
	err := json.Unmarshal([]byte(`{not valid json`), &m)
	require.Error(t, err)
}

func TestManifestParseEmpty(t *testing.T) {
	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &m))
	assert.Empty(t, m.Networks)
}

// ---------------------------------------------------------------------------
// fetchManifest
// ---------------------------------------------------------------------------

func TestFetchManifestSuccess(t *testing.T) {
	srv := manifestServer(t, Manifest{Networks: []chain.Network{anvilNetwork()}})
	defer srv.Close()

	s, _ := testSyncer(t)
	got, err := s.fetchManifest(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, got.Networks, 1)
	assert.Equal(t, "anvil", got.Networks[0].ID)
}

func TestFetchManifestInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s, _ := testSyncer(t)
	_, err := s.fetchManifest(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest")
}

func TestFetchManifestConnectionError(t *testing.T) {
	s, _ := testSyncer(t)
	_, err := s.fetchManifest(context.Background(), "http://127.0.0.1:19993")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// New / SetSource
// ---------------------------------------------------------------------------

func TestSyncerNew(t *testing.T) {
	s, _ := testSyncer(t)
	assert.NotNil(t, s)
	assert.NotNil(t, s.cfg)
	assert.NotNil(t, s.client)
}

func TestSetSourceSavesURL(t *testing.T) {
	s, cfg := testSyncer(t)

	const testURL = "https://example.com/networks.json"
	require.NoError(t, s.SetSource(testURL))
	assert.Equal(t, testURL, cfg.CatalogURL)

	// Persisted, not just in memory.
	reloaded, err := config.Load(cfg.Dir())
	require.NoError(t, err)
	assert.Equal(t, testURL, reloaded.CatalogURL)
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRunNoSourceConfigured(t *testing.T) {
	// Fresh config has no catalog URL.
	s, _ := testSyncer(t)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog URL configured")
}

func TestRunMergesCatalogNetworks(t *testing.T) {
	mSrv := manifestServer(t, Manifest{Networks: []chain.Network{anvilNetwork()}})
	defer mSrv.Close()

	s, cfg := testSyncer(t)
	require.NoError(t, s.SetSource(mSrv.URL))
	require.NoError(t, s.Run(context.Background()))

	nf, err := cfg.LoadNetworks()
	require.NoError(t, err)
	require.Len(t, nf.Networks, 1)
	assert.Equal(t, "anvil", nf.Networks[0].ID)
	assert.Equal(t, int64(31337), nf.Networks[0].ChainID)
}

func TestRunSkipsInvalidEntries(t *testing.T) {
	// Entries without an id, or evm entries without a chain id, are skipped;
	// the valid entry still lands and Run reports success.
	m := Manifest{Networks: []chain.Network{
		{Name: "No ID", Ecosystem: "evm", ChainID: 1},
		{ID: "no-chain-id", Name: "No Chain ID", Ecosystem: "evm"},
		anvilNetwork(),
	}}
	mSrv := manifestServer(t, m)
	defer mSrv.Close()

	s, cfg := testSyncer(t)
	require.NoError(t, s.SetSource(mSrv.URL))
	require.NoError(t, s.Run(context.Background()))

	nf, err := cfg.LoadNetworks()
	require.NoError(t, err)
	require.Len(t, nf.Networks, 1)
	assert.Equal(t, "anvil", nf.Networks[0].ID)
}

func TestRunReplacesExistingEntry(t *testing.T) {
	renamed := anvilNetwork()
	renamed.Name = "Anvil Local"
	mSrv := manifestServer(t, Manifest{Networks: []chain.Network{renamed}})
	defer mSrv.Close()

	s, cfg := testSyncer(t)
	require.NoError(t, cfg.SaveNetworks(&config.NetworksFile{Networks: []chain.Network{anvilNetwork()}}))
	require.NoError(t, s.SetSource(mSrv.URL))
	require.NoError(t, s.Run(context.Background()))

	nf, err := cfg.LoadNetworks()
	require.NoError(t, err)
	require.Len(t, nf.Networks, 1)
	assert.Equal(t, "Anvil Local", nf.Networks[0].Name)
}

func TestRunKeepsUnrelatedEntries(t *testing.T) {
	mSrv := manifestServer(t, Manifest{Networks: []chain.Network{anvilNetwork()}})
	defer mSrv.Close()

	existing := chain.Network{ID: "hardhat", Name: "Hardhat", Ecosystem: "evm", ChainID: 31338}
	s, cfg := testSyncer(t)
	require.NoError(t, cfg.SaveNetworks(&config.NetworksFile{Networks: []chain.Network{existing}}))
	require.NoError(t, s.SetSource(mSrv.URL))
	require.NoError(t, s.Run(context.Background()))

	nf, err := cfg.LoadNetworks()
	require.NoError(t, err)
	assert.Len(t, nf.Networks, 2)
}

func TestRunUpdatesLastSynced(t *testing.T) {
	// Empty manifest still updates LastSynced.
	mSrv := manifestServer(t, Manifest{})
	defer mSrv.Close()

	s, cfg := testSyncer(t)
	require.NoError(t, s.SetSource(mSrv.URL))

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Run(context.Background()))

	ss, err := cfg.LoadSync()
	require.NoError(t, err)
	require.NotEmpty(t, ss.LastSynced)

	ts, err := time.Parse(time.RFC3339, ss.LastSynced)
	require.NoError(t, err)
	assert.True(t, ts.After(before), "LastSynced should be after test start")
}

// ---------------------------------------------------------------------------
// Watch
// ---------------------------------------------------------------------------

func TestWatchCancellation(t *testing.T) {
	// Watch should return nil when the context is cancelled.
	callCount := 0
	mSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		json.NewEncoder(w).Encode(Manifest{}) //nolint:errcheck
	}))
	defer mSrv.Close()

	s, _ := testSyncer(t)
	require.NoError(t, s.SetSource(mSrv.URL))

	// Context with a short timeout, longer than one Run cycle but shorter
	// than the tick interval.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		// Use a very long tick so it never fires during the test.
		done <- s.Watch(ctx, 30*time.Second)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "Watch should return nil on context cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after context deadline")
	}

	// At least one initial Run should have been triggered.
	assert.GreaterOrEqual(t, callCount, 1)
}
