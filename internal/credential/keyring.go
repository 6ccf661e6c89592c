package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "bizhub"

// tokenKey is the keyring entry holding the platform access token.
const tokenKey = "access-token"

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
		FileDir:                  "~/.config/bizhub/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("bizhub-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// GetToken retrieves the stored platform access token.
func GetToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return "", fmt.Errorf("getting access token: %w", err)
	}

	return string(item.Data), nil
}

// SetToken stores the platform access token in the system keyring.
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
		return fmt.Errorf("setting access token: %w", err)
	}

	return nil
}

// DeleteToken removes the stored access token, e.g. on logout.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil {
		return fmt.Errorf("deleting access token: %w", err)
	}

	return nil
}
