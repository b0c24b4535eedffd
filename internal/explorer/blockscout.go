package explorer

import (
	"context"
	"fmt"
	"net/http"
)

// BlockScout fetches ABIs from an Etherscan-compatible explorer instance
// (BlockScout deployments and similar). No API key required.
type BlockScout struct {
	apiURL string
	client *http.Client
}

// NewBlockScout creates a BlockScout source. Returns nil if apiURL is empty.
func NewBlockScout(apiURL string) *BlockScout {
	if apiURL == "" {
		return nil
	}
	return &BlockScout{
		apiURL: apiURL,
		client: &http.Client{Timeout: httpTimeout},
	}
}

func (b *BlockScout) Name() string { return "blockscout" }

func (b *BlockScout) FetchABI(ctx context.Context, address string) (string, error) {
	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s", b.apiURL, address)
	return fetchABIFromAPI(ctx, b.client, url)
}
