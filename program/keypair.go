package program

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"imgportal/engine/library"
)

// LoadOrCreateKeypair reads a solana-keygen JSON keypair, creating one if the file does not
// exist. The shared account address is derived from it, so it must be kept once created.
func LoadOrCreateKeypair(path string) (solana.PrivateKey, error) {
	if _, err := os.Stat(path); err == nil {
		return solana.PrivateKeyFromSolanaKeygenFile(path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	if err := writeKeygenFile(path, key); err != nil {
		return nil, err
	}
	library.LogCLI(fmt.Sprintf("Created a new base account keypair at %s for %s", path, key.PublicKey()), 4)
	return key, nil
}

func writeKeygenFile(path string, key solana.PrivateKey) error {
	// solana-keygen stores the secret as a JSON array of numbers
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	b, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
