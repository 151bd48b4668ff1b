package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "hrconsole"

// tokenKey is the keyring entry holding the HR API bearer token.
const tokenKey = "hr-api-token"

// EnvToken is the environment variable that overrides the keyring.
const EnvToken = "HRCONSOLE_TOKEN"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/hrconsole/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("hrconsole-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token returns the bearer token for the HR API. The HRCONSOLE_TOKEN
// environment variable wins over the keyring so scripted sessions can
// inject short-lived tokens.
func Token() (string, error) {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok, nil
	}

	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return "", fmt.Errorf("getting stored token: %w", err)
	}
	return string(item.Data), nil
}

// SetToken stores the bearer token in the system keyring.
func SetToken(value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// DeleteToken removes the stored bearer token from the system keyring.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(tokenKey); err != nil {
		return fmt.Errorf("deleting stored token: %w", err)
	}
	return nil
}
