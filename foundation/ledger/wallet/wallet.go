// Package wallet manages the private keys behind account identifiers
// and derives the public address recorded in transactions.
package wallet

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"
)

// addressVersion is the version byte carried by every encoded address.
const addressVersion = 0x00

// keyExtension marks the private key files inside the keystore.
const keyExtension = ".ecdsa"

// Generate creates a new private key stored under the keystore path by
// name and returns the account identifier derived from its public key.
func Generate(keystorePath string, name string) (database.AccountID, error) {
	if err := os.MkdirAll(keystorePath, 0700); err != nil {
		return "", fmt.Errorf("create keystore: %w", err)
	}

	path := filepath.Join(keystorePath, name+keyExtension)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("account %q already exists", name)
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return "", fmt.Errorf("save key: %w", err)
	}

	return Address(&privateKey.PublicKey), nil
}

// LookupAddress loads the named private key from the keystore and
// returns its account identifier.
func LookupAddress(keystorePath string, name string) (database.AccountID, error) {
	privateKey, err := crypto.LoadECDSA(filepath.Join(keystorePath, name+keyExtension))
	if err != nil {
		return "", fmt.Errorf("load key %q: %w", name, err)
	}

	return Address(&privateKey.PublicKey), nil
}

// Accounts returns the account identifier of every key in the
// keystore, by name.
func Accounts(keystorePath string) (map[string]database.AccountID, error) {
	accounts := make(map[string]database.AccountID)

	fn := func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(path) != keyExtension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(path)
		if err != nil {
			return fmt.Errorf("load key %q: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), keyExtension)
		accounts[name] = Address(&privateKey.PublicKey)

		return nil
	}

	if err := filepath.WalkDir(keystorePath, fn); err != nil {
		return nil, fmt.Errorf("walk keystore: %w", err)
	}

	return accounts, nil
}

// Address derives the account identifier for a public key: the
// Base58Check encoding of the versioned RIPEMD160 hash of the key's
// SHA256 digest.
func Address(publicKey *ecdsa.PublicKey) database.AccountID {
	sha := sha256.Sum256(crypto.FromECDSAPub(publicKey))

	rip := ripemd160.New()
	rip.Write(sha[:])

	return database.AccountID(base58.CheckEncode(rip.Sum(nil), addressVersion))
}
