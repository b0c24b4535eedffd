// check-explorers: probes every explorer API endpoint in the built-in
// network registry in parallel and prints a reachability/latency table.
// Useful after editing the registry or a catalog manifest.
//
// Run from the module root:
//
//	go run ./scripts/check-explorers
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/w3forms/internal/chain"
)

const probeTimeout = 12 * time.Second

// probeAddress is the WETH9 contract on Ethereum mainnet; every
// etherscan-compatible API answers a getabi for it (possibly with a
// rate-limit or missing-key message, which still proves the endpoint is
// alive and speaking the protocol).
const probeAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

type result struct {
	network string
	apiURL  string
	latency time.Duration
	status  string
	note    string
}

func main() {
	reg := chain.NewRegistry()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	client := &http.Client{Timeout: probeTimeout}

	for _, n := range reg.List() {
		for _, apiURL := range n.ExplorerAPIURLs {
			wg.Add(1)
			go func(network, apiURL string) {
				defer wg.Done()

				r := probe(client, network, apiURL)

				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(n.ID, apiURL)
		}
	}

	wg.Wait()

	printTable(results)
}

func probe(client *http.Client, network, apiURL string) result {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s", apiURL, probeAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result{network: network, apiURL: apiURL, status: "error", note: shortErr(err)}
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return result{network: network, apiURL: apiURL, latency: latency, status: "unreachable", note: shortErr(err)}
	}
	defer resp.Body.Close()

	r := result{network: network, apiURL: apiURL, latency: latency}
	if resp.StatusCode != http.StatusOK {
		r.status = "error"
		r.note = resp.Status
		return r
	}

	// An etherscan-compatible body has status/message fields; anything else
	// is an explorer speaking a different protocol.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var api struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &api) != nil || (api.Status == "" && api.Message == "") {
		r.status = "unknown"
		r.note = "non-etherscan response"
		return r
	}

	r.status = "ok"
	if api.Status != "1" {
		r.note = shortStr(api.Message, 30)
	}
	return r
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.network != b.network {
			return a.network < b.network
		}
		return a.apiURL < b.apiURL
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NETWORK\tAPI\tSTATUS\tLATENCY\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 18)+"\t"+
		strings.Repeat("-", 40)+"\t"+
		strings.Repeat("-", 11)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 12))

	ok := 0
	for _, r := range results {
		latency := "-"
		if r.latency > 0 {
			latency = r.latency.Round(time.Millisecond).String()
		}
		if r.status == "ok" {
			ok++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.network, shortStr(r.apiURL, 40), r.status, latency, r.note)
	}
	w.Flush()

	fmt.Printf("\n%d/%d endpoints healthy\n", ok, len(results))
}

func shortErr(err error) string {
	return shortStr(err.Error(), 30)
}

func shortStr(s string, n int) string {
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
