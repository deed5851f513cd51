package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	defaultDBKeyAccount = "db_key"
	dbKeyBytes          = 32
)

var ErrNoDBKey = errors.New("no database key stored")

var randRead = rand.Read

// LoadDBKey returns the sqlcipher key for the local snapshot database.
func LoadDBKey() (string, error) {
	key, err := readSecret(dbKeyAccount())
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrNoDBKey
	}
	return key, nil
}

func SaveDBKey(key string) error {
	if key == "" {
		return errors.New("database key cannot be empty")
	}
	return writeSecret(dbKeyAccount(), key)
}

// LoadOrCreateDBKey returns the stored key, generating and saving a random
// one when none exists. created reports whether a new key was made; any
// database encrypted with an older key is unreadable at that point.
func LoadOrCreateDBKey() (key string, created bool, err error) {
	key, err = LoadDBKey()
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, ErrNoDBKey) {
		return "", false, err
	}

	buf := make([]byte, dbKeyBytes)
	if _, err := randRead(buf); err != nil {
		return "", false, fmt.Errorf("generate database key: %w", err)
	}
	key = hex.EncodeToString(buf)
	if err := SaveDBKey(key); err != nil {
		return "", false, err
	}
	return key, true, nil
}

func dbKeyAccount() string {
	return envOrDefault("FINTRACK_DB_KEY_ACCOUNT", defaultDBKeyAccount)
}
