// Package explorer fetches verified contract ABIs from block explorer APIs.
package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3forms/internal/logging"
)

// ErrAllFailed is returned when every source in the registry fails.
var ErrAllFailed = errors.New("all explorer sources failed")

// ErrNotVerified is returned when the explorer knows the contract but has no
// verified source for it.
var ErrNotVerified = errors.New("contract source not verified")

const httpTimeout = 15 * time.Second

// Source fetches the verified ABI JSON for a contract address.
type Source interface {
	Name() string
	FetchABI(ctx context.Context, address string) (string, error)
}

// Registry tries sources in order and returns the first successful result.
// It satisfies the loader's fetcher contract.
type Registry struct {
	sources []Source
}

// NewRegistry creates a Registry from an ordered list of sources.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// FetchABI tries each source in order, logging non-fatal failures. When a
// source reports the contract as unverified and no later source succeeds,
// that outcome wins over a generic failure.
func (r *Registry) FetchABI(ctx context.Context, address string) (string, error) {
	if len(r.sources) == 0 {
		return "", ErrAllFailed
	}

	var warnings []string
	notVerified := false
	for _, s := range r.sources {
		abiJSON, err := s.FetchABI(ctx, address)
		if err != nil {
			if errors.Is(err, ErrNotVerified) {
				notVerified = true
			}
			warnings = append(warnings, fmt.Sprintf("%s: %v", s.Name(), err))
			logging.Warn("explorer source failed",
				zap.String("source", s.Name()),
				zap.String("address", address),
				zap.Error(err),
			)
			continue
		}
		return abiJSON, nil
	}

	if notVerified {
		return "", fmt.Errorf("%w: %s", ErrNotVerified, address)
	}
	return "", fmt.Errorf("%w: %s", ErrAllFailed, strings.Join(warnings, "; "))
}

// Names returns the names of all registered sources (for display).
func (r *Registry) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// apiResponse is the etherscan-compatible envelope shared by every source.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// fetchABIFromAPI runs one getabi request and unwraps the envelope.
func fetchABIFromAPI(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("explorer returned HTTP %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding explorer response: %w", err)
	}

	if body.Status != "1" {
		if strings.Contains(strings.ToLower(body.Result), "not verified") {
			return "", ErrNotVerified
		}
		reason := body.Result
		if reason == "" {
			reason = body.Message
		}
		return "", fmt.Errorf("explorer error: %s", reason)
	}

	if !json.Valid([]byte(body.Result)) {
		return "", fmt.Errorf("explorer returned malformed ABI")
	}
	return body.Result, nil
}
