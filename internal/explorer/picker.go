package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrNoHealthyEndpoint is returned when none of a network's candidate API
// bases answers the health probe.
var ErrNoHealthyEndpoint = errors.New("no healthy explorer endpoint available")

// Cache the winning endpoint for this duration before re-probing.
const pickerCacheTTL = 5 * time.Minute

// probeFunc checks one API base for liveness. Injectable so tests count
// probes and fail selected bases.
type probeFunc func(ctx context.Context, apiURL string) error

// Picker selects a healthy API base from a network's candidate list,
// probing them in order and caching the first that answers. A fetch failure
// on the cached base invalidates the cache so the next attempt re-probes.
type Picker struct {
	candidates []string
	probe      probeFunc

	mu          sync.Mutex
	cachedURL   string
	cacheExpiry time.Time
}

// NewPicker creates a picker over the candidate API bases, in priority
// order.
func NewPicker(candidates []string) *Picker {
	client := &http.Client{Timeout: httpTimeout}
	return &Picker{
		candidates: candidates,
		probe: func(ctx context.Context, apiURL string) error {
			return probeEndpoint(ctx, client, apiURL)
		},
	}
}

// Pick returns a healthy API base: the cached one while fresh, otherwise
// the first candidate that passes the probe.
func (p *Picker) Pick(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cachedURL != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedURL, nil
	}

	var lastErr error
	for _, url := range p.candidates {
		if err := p.probe(ctx, url); err != nil {
			lastErr = err
			continue
		}
		p.cachedURL = url
		p.cacheExpiry = time.Now().Add(pickerCacheTTL)
		return url, nil
	}

	p.cachedURL = ""
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHealthyEndpoint, lastErr)
	}
	return "", ErrNoHealthyEndpoint
}

// Invalidate drops the cached base so the next Pick re-probes. Called when
// a fetch through the picked base fails.
func (p *Picker) Invalidate() {
	p.mu.Lock()
	p.cachedURL = ""
	p.mu.Unlock()
}

// probeEndpoint runs the cheapest etherscan-compatible request and accepts
// any well-formed envelope: a rate-limit or error response still proves the
// endpoint is alive and speaking the protocol.
func probeEndpoint(ctx context.Context, client *http.Client, apiURL string) error {
	url := apiURL + "?module=block&action=eth_block_number"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("probe returned malformed response: %w", err)
	}
	return nil
}

// PickedBlockScout is a BlockScout source over multiple candidate API
// bases: each fetch goes through the picker, and a failed fetch drops the
// cached base so the next one fails over.
type PickedBlockScout struct {
	picker *Picker
	client *http.Client
}

// NewPickedBlockScout creates a multi-endpoint BlockScout source. Returns
// nil when there are no candidates.
func NewPickedBlockScout(candidates []string) *PickedBlockScout {
	if len(candidates) == 0 {
		return nil
	}
	return &PickedBlockScout{
		picker: NewPicker(candidates),
		client: &http.Client{Timeout: httpTimeout},
	}
}

func (b *PickedBlockScout) Name() string { return "blockscout" }

func (b *PickedBlockScout) FetchABI(ctx context.Context, address string) (string, error) {
	apiURL, err := b.picker.Pick(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s", apiURL, address)
	abiJSON, err := fetchABIFromAPI(ctx, b.client, url)
	if err != nil && !errors.Is(err, ErrNotVerified) {
		b.picker.Invalidate()
	}
	return abiJSON, err
}
