package wallet

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Info describes a created wallet. It never contains key material.
type Info struct {
	Address           string `json:"address"`
	Path              string `json:"path"`
	PasswordPath      string `json:"password_path,omitempty"`
	GeneratedPassword bool   `json:"-"`
}

// CreateOptions controls wallet creation.
type CreateOptions struct {
	// Password encrypts the keystore. Empty means auto-generate one and
	// persist it to PasswordSavePath.
	Password string
	// OutputPath is where the keystore file is written.
	OutputPath string
	// PasswordSavePath receives the auto-generated password. Unused when
	// Password is set.
	PasswordSavePath string
}

const passwordLength = 32

const passwordCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GeneratePassword returns a 32-character alphanumeric password drawn
// uniformly from [0-9a-zA-Z] using the system CSPRNG.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordCharset)))
	var sb strings.Builder
	for i := 0; i < passwordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %v", err)
		}
		sb.WriteByte(passwordCharset[n.Int64()])
	}
	return sb.String(), nil
}

// Create generates a fresh keypair and writes it as a password-encrypted
// Web3 keystore file (owner read/write only). The plaintext address stays
// readable in the file so address lookups never need the password.
//
// Creation never overwrites: an existing file at OutputPath fails with
// ErrWalletExists and is left untouched.
func Create(opts CreateOptions) (*Info, error) {
	if _, err := os.Stat(opts.OutputPath); err == nil {
		return nil, fmt.Errorf("%w at %s", ErrWalletExists, opts.OutputPath)
	}

	password := opts.Password
	generated := false
	if password == "" {
		p, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		password = p
		generated = true
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %v", err)
	}
	defer ZeroKey(privateKey)

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	blob, err := keystore.EncryptKey(key, password, keystore.StandardScryptN, keystore.StandardScryptP)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt keystore: %v", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, blob, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(blob)
	}

	if err := os.WriteFile(opts.OutputPath, pretty.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write wallet file: %v", err)
	}

	info := &Info{
		Address:           key.Address.Hex(),
		Path:              opts.OutputPath,
		GeneratedPassword: generated,
	}

	if generated {
		if err := os.WriteFile(opts.PasswordSavePath, []byte(password), 0600); err != nil {
			return nil, fmt.Errorf("failed to write password file: %v", err)
		}
		info.PasswordPath = opts.PasswordSavePath
	}

	return info, nil
}

// Address reads the plaintext address field from a keystore file without
// decrypting anything. The stored casing is returned unchanged apart from
// ensuring a 0x prefix; no checksum is computed.
func Address(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w at %s", ErrWalletNotFound, path)
		}
		return "", fmt.Errorf("failed to read wallet file: %v", err)
	}

	var ks map[string]json.RawMessage
	if err := json.Unmarshal(data, &ks); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var address string
	raw, ok := ks["address"]
	if !ok || json.Unmarshal(raw, &address) != nil || address == "" {
		return "", fmt.Errorf("%w: no address field in keystore", ErrMalformed)
	}

	if !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}

	return address, nil
}

// Decrypt loads a keystore file and decrypts the private key with the given
// password. Decryption is performed fresh on every call and never cached.
func Decrypt(path, password string) (*keystore.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrWalletNotFound, path)
		}
		return nil, fmt.Errorf("failed to read wallet file: %v", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}

	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		// Any decryption or key reconstruction failure surfaces as a
		// credential error; there is no recovery path other than asking
		// for the password again.
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	return key, nil
}

// LoadPassword reads a password file, trimming surrounding whitespace.
func LoadPassword(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: password file not found at %s", ErrNoPassword, path)
		}
		return "", fmt.Errorf("failed to read password file: %v", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Exists reports whether a keystore file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ZeroKey wipes the private scalar from memory.
func ZeroKey(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	b := k.D.Bits()
	for i := range b {
		b[i] = 0
	}
}
