package wallet

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "paywallet"

// StoreKeyringPassword saves the wallet password in the OS keyring, keyed by
// the wallet address.
func StoreKeyringPassword(address, password string) error {
	if err := keyring.Set(keyringService, address, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %v", err)
	}
	return nil
}

// KeyringPassword looks up the wallet password in the OS keyring. Returns
// ErrNoPassword when no entry exists.
func KeyringPassword(address string) (string, error) {
	secret, err := keyring.Get(keyringService, address)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: no keyring entry for %s", ErrNoPassword, address)
		}
		return "", fmt.Errorf("failed to read password from keyring: %v", err)
	}
	return secret, nil
}

// DeleteKeyringPassword removes the stored password for a wallet address.
func DeleteKeyringPassword(address string) error {
	if err := keyring.Delete(keyringService, address); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %v", err)
	}
	return nil
}
