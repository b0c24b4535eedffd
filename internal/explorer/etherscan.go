package explorer

import (
	"context"
	"fmt"
	"net/http"
)

const etherscanBaseURL = "https://api.etherscan.io/v2/api"

// Etherscan is a source backed by the Etherscan V2 unified API, which serves
// every supported chain through one endpoint selected by chain id. It
// requires an API key and is nil-guarded: NewEtherscan returns nil without
// one.
type Etherscan struct {
	chainID int64
	apiKey  string
	baseURL string // defaults to etherscanBaseURL; overridable in tests
	client  *http.Client
}

// NewEtherscan creates an Etherscan source. Returns nil if apiKey is empty
// or the network has no chain id.
func NewEtherscan(chainID int64, apiKey string) *Etherscan {
	if apiKey == "" || chainID == 0 {
		return nil
	}
	return &Etherscan{
		chainID: chainID,
		apiKey:  apiKey,
		baseURL: etherscanBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

func (e *Etherscan) Name() string { return "etherscan" }

func (e *Etherscan) FetchABI(ctx context.Context, address string) (string, error) {
	url := fmt.Sprintf(
		"%s?chainid=%d&module=contract&action=getabi&address=%s&apikey=%s",
		e.baseURL, e.chainID, address, e.apiKey,
	)
	return fetchABIFromAPI(ctx, e.client, url)
}
