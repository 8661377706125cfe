// Package secrets stores the aggregator API key in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups boardscan secrets in the OS keychain.
	KeyringService = "boardscan"
	// DefaultAccount is used when the config names no keyring account.
	DefaultAccount = "serpapi"
)

// ErrNotFound means no key is configured and none is stored in the keychain.
var ErrNotFound = errors.New("serpapi key not found (set aggregator.api_key or run `boardscan secret set`)")

func account(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return DefaultAccount
}

// GetAPIKey reads the key stored under the given keyring account.
func GetAPIKey(keyringAccount string) (string, error) {
	key, err := keyring.Get(KeyringService, account(keyringAccount))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrNotFound
	}
	return key, nil
}

// SetAPIKey stores key under the given keyring account.
func SetAPIKey(keyringAccount, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	if err := keyring.Set(KeyringService, account(keyringAccount), strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored key. Deleting a missing key is not an error.
func DeleteAPIKey(keyringAccount string) error {
	err := keyring.Delete(KeyringService, account(keyringAccount))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting from keyring: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the configured key when set, otherwise the key from
// the keychain. An unavailable keychain is reported as ErrNotFound wrapped
// with its cause.
func ResolveAPIKey(configured, keyringAccount string) (string, error) {
	if k := strings.TrimSpace(configured); k != "" {
		return k, nil
	}
	key, err := GetAPIKey(keyringAccount)
	if err == nil {
		return key, nil
	}
	if errors.Is(err, ErrNotFound) {
		return "", err
	}
	return "", fmt.Errorf("%w: %v", ErrNotFound, err)
}
