package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/nbd-wtf/go-nostr/nip06"
	"imgportal/engine/library"
)

// Wallet is the key material a Keystore holds. The Solana key and the nostr key are both
// derived from the same seed words.
type Wallet struct {
	PrivateKey      string
	SeedWords       string
	Account         library.Account
	NostrPrivateKey string
	NostrPubKey     string
}

// NewWallet generates fresh seed words and derives a wallet from them.
func NewWallet() (Wallet, error) {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		return Wallet{}, err
	}
	return WalletFromSeedWords(seedWords)
}

// WalletFromSeedWords restores a wallet. The Solana key uses the first 32 bytes of the bip39
// seed with an empty passphrase, which is what solana-keygen does without a derivation path.
func WalletFromSeedWords(seedWords string) (Wallet, error) {
	if !nip06.ValidateWords(seedWords) {
		return Wallet{}, fmt.Errorf("invalid seed words")
	}
	seed := nip06.SeedFromWords(seedWords)
	sk := solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]))
	nsk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return Wallet{}, err
	}
	npk, err := nostrPubKey(nsk)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{
		PrivateKey:      sk.String(),
		SeedWords:       seedWords,
		Account:         sk.PublicKey().String(),
		NostrPrivateKey: nsk,
		NostrPubKey:     npk,
	}, nil
}

func nostrPubKey(privateKey string) (string, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("error decoding key from hex: %w", err)
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(pubkey.SerializeCompressed()[1:]), nil
}

// keySigner signs with a private key held in memory.
type keySigner struct {
	key solana.PrivateKey
}

func (k keySigner) Account() library.Account {
	return k.key.PublicKey().String()
}

func (k keySigner) Sign(message []byte) ([]byte, error) {
	sig, err := k.key.Sign(message)
	if err != nil {
		return nil, err
	}
	return sig[:], nil
}

// KeySigner wraps a raw private key, for key material that is not held by a wallet.
func KeySigner(key solana.PrivateKey) library.Signer {
	return keySigner{key: key}
}
