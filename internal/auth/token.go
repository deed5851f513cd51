// Package auth persists session secrets and tracks the signed-in session.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "fintrack"
	defaultTokenAccount  = "session_token"
)

var ErrNoToken = errors.New("no session token stored")

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// LoadToken loads the backend session token.
//
// Order of precedence:
// 1) FINTRACK_TOKEN environment variable.
// 2) OS keyring item referenced by service/account.
func LoadToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv("FINTRACK_TOKEN")); token != "" {
		return token, nil
	}

	token, err := readSecret(tokenAccount())
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SaveToken stores the session token in the system credential store.
func SaveToken(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return errors.New("session token cannot be empty")
	}
	return writeSecret(tokenAccount(), trimmed)
}

// DeleteToken removes the stored token. A missing item is not an error.
func DeleteToken() error {
	return deleteSecret(tokenAccount())
}

// KeyringTokens is the TokenStore backed by LoadToken, SaveToken and DeleteToken.
type KeyringTokens struct{}

func (KeyringTokens) Load() (string, error) { return LoadToken() }
func (KeyringTokens) Save(token string) error { return SaveToken(token) }
func (KeyringTokens) Delete() error { return DeleteToken() }

func tokenAccount() string {
	return envOrDefault("FINTRACK_KEYCHAIN_ACCOUNT", defaultTokenAccount)
}

func secretService() string {
	return envOrDefault("FINTRACK_KEYCHAIN_SERVICE", defaultSecretService)
}

func readSecret(account string) (string, error) {
	service := secretService()
	secret, err := keyringGet(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return strings.TrimSpace(secret), nil
}

func writeSecret(account, secret string) error {
	service := secretService()
	if err := keyringSet(service, account, secret); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func deleteSecret(account string) error {
	service := secretService()
	err := keyringDelete(service, account)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf(
		"failed to delete keyring item service=%q account=%q: %w",
		service,
		account,
		err,
	)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
