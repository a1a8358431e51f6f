package vault

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrNoMasterKey is returned when the vault is constructed without key material
var ErrNoMasterKey = errors.New("vault: master key is not configured")

// Vault holds the static OAuth master key used to sign and verify session
// tokens. The key is loaded once at startup and never rotated in-process.
type Vault struct {
	masterKey []byte
}

// New creates a Vault from a base64-encoded master key
func New(encodedKey string) (*Vault, error) {
	if encodedKey == "" {
		return nil, ErrNoMasterKey
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to decode master key: %w", err)
	}
	if len(key) == 0 {
		return nil, ErrNoMasterKey
	}

	return &Vault{masterKey: key}, nil
}

// MasterKey returns the raw master key bytes
func (v *Vault) MasterKey() []byte {
	return v.masterKey
}
