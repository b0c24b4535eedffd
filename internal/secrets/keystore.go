// Package secrets stores explorer API keys in the OS keychain.
package secrets

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

const keychainService = "w3forms"

// Keystore is the API-key storage contract, keyed by provider name
// ("etherscan" etc.).
type Keystore interface {
	Set(provider, key string) error
	Get(provider string) (string, error)
	Delete(provider string) error
	List() ([]string, error)
}

// KeychainStore wraps OS keychain access.
type KeychainStore struct {
	ring keyring.Keyring
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *KeychainStore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		// Use file backend as ultimate fallback.
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &KeychainStore{ring: ring}
}

func (k *KeychainStore) Set(provider, key string) error {
	if k.ring == nil {
		return fmt.Errorf("keystore not available")
	}
	err := k.ring.Set(keyring.Item{
		Key:  itemKey(provider),
		Data: []byte(key),
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

func (k *KeychainStore) Get(provider string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(itemKey(provider))
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

func (k *KeychainStore) Delete(provider string) error {
	if k.ring == nil {
		return nil
	}
	return k.ring.Remove(itemKey(provider))
}

// List returns the provider names with stored keys, sorted.
func (k *KeychainStore) List() ([]string, error) {
	if k.ring == nil {
		return nil, nil
	}
	keys, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	var providers []string
	for _, key := range keys {
		if p, ok := strings.CutPrefix(key, keychainService+"."); ok {
			providers = append(providers, p)
		}
	}
	sort.Strings(providers)
	return providers, nil
}

func itemKey(provider string) string {
	return keychainService + "." + provider
}

// KeyFor builds the key resolver used when assembling explorer sources:
// environment variables (W3FORMS_ETHERSCAN_API_KEY etc.) win over the
// keychain. ks may be nil.
func KeyFor(ks Keystore) func(provider string) string {
	return func(provider string) string {
		env := "W3FORMS_" + strings.ToUpper(provider) + "_API_KEY"
		if v := os.Getenv(env); v != "" {
			return v
		}
		if ks == nil {
			return ""
		}
		key, err := ks.Get(provider)
		if err != nil {
			return ""
		}
		return key
	}
}

// MemoryKeystore stores keys in memory (for tests).
type MemoryKeystore struct {
	data map[string]string
}

// NewMemoryKeystore creates an in-memory keystore.
func NewMemoryKeystore() *MemoryKeystore {
	return &MemoryKeystore{data: make(map[string]string)}
}

func (k *MemoryKeystore) Set(provider, key string) error {
	k.data[provider] = key
	return nil
}

func (k *MemoryKeystore) Get(provider string) (string, error) {
	v, ok := k.data[provider]
	if !ok {
		return "", fmt.Errorf("key not found: %s", provider)
	}
	return v, nil
}

func (k *MemoryKeystore) Delete(provider string) error {
	delete(k.data, provider)
	return nil
}

func (k *MemoryKeystore) List() ([]string, error) {
	providers := make([]string, 0, len(k.data))
	for p := range k.data {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers, nil
}
