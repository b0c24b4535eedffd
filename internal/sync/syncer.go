// Package sync fetches a published network catalog and merges it into the
// local custom-network set.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/chain"
	"github.com/Mohsinsiddi/w3forms/internal/config"
)

// Manifest is the structure of a published network catalog.
type Manifest struct {
	Version  int             `json:"version,omitempty"`
	Networks []chain.Network `json:"networks"`
}

// Syncer fetches the catalog manifest and updates the custom network set.
type Syncer struct {
	cfg    *config.Config
	client *http.Client
}

// New creates a new Syncer.
func New(cfg *config.Config) *Syncer {
	return &Syncer{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Run fetches the manifest from the configured catalog URL and merges its
// entries into networks.json. Entries that fail validation are skipped with
// a warning; one bad entry never aborts the sync.
func (s *Syncer) Run(ctx context.Context) error {
	if s.cfg.CatalogURL == "" {
		return fmt.Errorf("no catalog URL configured; run: w3forms networks sync <url>")
	}

	manifest, err := s.fetchManifest(ctx, s.cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}

	nf, err := s.cfg.LoadNetworks()
	if err != nil {
		return fmt.Errorf("loading networks: %w", err)
	}

	for _, n := range manifest.Networks {
		if err := n.Validate(); err != nil {
			fmt.Printf("warning: skipping catalog entry: %v\n", err)
			continue
		}
		nf.Upsert(n)
	}

	if err := s.cfg.SaveNetworks(nf); err != nil {
		return fmt.Errorf("saving networks: %w", err)
	}

	// Update last synced timestamp.
	return s.cfg.SaveSync(&config.SyncState{
		LastSynced: time.Now().UTC().Format(time.RFC3339),
	})
}

// SetSource sets the catalog manifest URL.
func (s *Syncer) SetSource(url string) error {
	s.cfg.CatalogURL = url
	return s.cfg.Save()
}

// Watch runs Syncer.Run on a ticker until ctx is cancelled.
func (s *Syncer) Watch(ctx context.Context, interval time.Duration) error {
	if err := s.Run(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Run(ctx) //nolint:errcheck
		}
	}
}

func (s *Syncer) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
