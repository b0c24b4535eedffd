package contract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3forms/internal/logging"
)

// Parser normalizes raw ABI JSON into a schema. Implemented per ecosystem by
// the adapter layer.
type Parser interface {
	ParseDefinition(abiJSON string) (*Schema, map[string]string, error)
}

// Fetcher retrieves raw ABI JSON for a verified contract address.
type Fetcher interface {
	FetchABI(ctx context.Context, address string) (string, error)
}

// LoadInput describes one load attempt. Address alone fetches from an
// explorer; DefinitionText alone parses a manual definition; both together is
// the hybrid path (the user supplied text for an address whose fetch failed
// or was overridden).
type LoadInput struct {
	Address        string
	DefinitionText string
}

// FetcherFunc resolves the fetcher for a network, nil when the network has
// no usable explorer source.
type FetcherFunc func(networkID string) Fetcher

// Loader turns a load input into a normalized definition. One loader serves
// the whole session so the circuit breaker counts failures across networks.
type Loader struct {
	parser     Parser
	fetcherFor FetcherFunc // nil disables the fetch path entirely
	breaker    *Breaker
}

// NewLoader creates a loader. fetcherFor may be nil; fetch-path loads then
// fail with a configuration error while manual loads keep working.
func NewLoader(parser Parser, fetcherFor FetcherFunc) *Loader {
	return &Loader{
		parser:     parser,
		fetcherFor: fetcherFor,
		breaker:    NewBreaker(),
	}
}

// Breaker exposes the loader's circuit breaker, mainly to tests.
func (l *Loader) Breaker() *Breaker { return l.breaker }

// ResetInput clears failure tracking for an input, used when the draft that
// produced the failures is abandoned.
func (l *Loader) ResetInput(in LoadInput) {
	l.breaker.Reset(breakerKey(in))
}

// Load resolves a definition for in on the given network. Malformed manual
// input returns a ValidationError; fetch and parse failures of fetched data
// are load errors. Both failure classes count toward the per-input circuit
// breaker.
func (l *Loader) Load(ctx context.Context, networkID string, in LoadInput) (*Definition, error) {
	key := breakerKey(in)
	if err := l.breaker.Allow(key); err != nil {
		return nil, err
	}

	def, err := l.load(ctx, networkID, in)
	if err != nil {
		l.breaker.Record(key)
		return nil, err
	}

	l.breaker.Reset(key)
	logging.Debug("definition loaded",
		zap.String("network", networkID),
		zap.String("source", string(def.Source)),
		zap.Int("functions", len(def.Schema.Functions)),
	)
	return def, nil
}

func (l *Loader) load(ctx context.Context, networkID string, in LoadInput) (*Definition, error) {
	if in.DefinitionText != "" {
		return l.loadManual(in)
	}
	if in.Address == "" {
		return nil, &ValidationError{Reason: "no address or definition text supplied"}
	}
	return l.loadFetched(ctx, networkID, in.Address)
}

func (l *Loader) loadManual(in LoadInput) (*Definition, error) {
	abiJSON, meta, err := ExtractABI(in.DefinitionText)
	if err != nil {
		return nil, err
	}

	schema, parseMeta, err := l.parser.ParseDefinition(abiJSON)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	mergeMeta(meta, parseMeta)

	source := SourceManual
	if in.Address != "" {
		source = SourceHybrid
	}
	return &Definition{
		Schema:       schema,
		Source:       source,
		Metadata:     meta,
		OriginalText: in.DefinitionText,
	}, nil
}

func (l *Loader) loadFetched(ctx context.Context, networkID, address string) (*Definition, error) {
	var fetcher Fetcher
	if l.fetcherFor != nil {
		fetcher = l.fetcherFor(networkID)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("no explorer source configured for network %s; paste the definition manually", networkID)
	}

	abiJSON, err := fetcher.FetchABI(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetching definition for %s: %w", address, err)
	}

	schema, meta, err := l.parser.ParseDefinition(abiJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched definition for %s: %w", address, err)
	}
	if meta == nil {
		meta = map[string]string{}
	}
	meta["format"] = "abi"

	return &Definition{
		Schema:       schema,
		Source:       SourceFetched,
		Metadata:     meta,
		OriginalText: abiJSON,
	}, nil
}

// breakerKey identifies "the same input" for failure counting: the address
// when present, otherwise a digest of the manual text.
func breakerKey(in LoadInput) string {
	if in.Address != "" {
		return strings.ToLower(in.Address)
	}
	sum := sha256.Sum256([]byte(in.DefinitionText))
	return "text:" + hex.EncodeToString(sum[:8])
}

func mergeMeta(dst, src map[string]string) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}
