package wallet

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/assert/v2"
	"imgportal/engine/actors"
	"imgportal/engine/library"
)

const testSeedWords = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestKeystore(t *testing.T, answer bool) (*Keystore, *int) {
	asked := 0
	approver := ApproverFunc(func(ctx context.Context, app string, account library.Account) (bool, error) {
		asked++
		return answer, nil
	})
	return NewKeystore(actors.NewStore(t.TempDir()), "imgportal", approver), &asked
}

func TestWalletFromSeedWordsIsDeterministic(t *testing.T) {
	a, err := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, err)
	b, err := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 64, len(a.NostrPrivateKey))
	assert.Equal(t, 64, len(a.NostrPubKey))

	pk, err := solana.PublicKeyFromBase58(a.Account)
	assert.Equal(t, nil, err)
	sk, err := solana.PrivateKeyFromBase58(a.PrivateKey)
	assert.Equal(t, nil, err)
	assert.Equal(t, pk, sk.PublicKey())
}

func TestWalletFromSeedWordsRejectsGarbage(t *testing.T) {
	_, err := WalletFromSeedWords("not a mnemonic")
	assert.NotEqual(t, nil, err)
}

func TestKeystoreUnavailableWithoutWallet(t *testing.T) {
	k, _ := newTestKeystore(t, true)
	assert.Equal(t, false, k.IsAvailable())
	_, err := k.Connect(context.Background(), ConnectOptions{})
	assert.NotEqual(t, nil, err)
}

func TestKeystoreTrustFlow(t *testing.T) {
	k, asked := newTestKeystore(t, true)
	w, err := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, k.Create(w))
	assert.Equal(t, true, k.IsAvailable())
	assert.NotEqual(t, nil, k.Create(w))

	_, err = k.Connect(context.Background(), ConnectOptions{OnlyIfTrusted: true})
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, *asked)

	account, err := k.Connect(context.Background(), ConnectOptions{})
	assert.Equal(t, nil, err)
	assert.Equal(t, w.Account, account)
	assert.Equal(t, 1, *asked)

	account, err = k.Connect(context.Background(), ConnectOptions{OnlyIfTrusted: true})
	assert.Equal(t, nil, err)
	assert.Equal(t, w.Account, account)
	assert.Equal(t, 1, *asked)

	assert.Equal(t, nil, k.Revoke("imgportal"))
	_, err = k.Connect(context.Background(), ConnectOptions{OnlyIfTrusted: true})
	assert.NotEqual(t, nil, err)
}

func TestKeystoreRejectedPrompt(t *testing.T) {
	k, asked := newTestKeystore(t, false)
	w, _ := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, k.Create(w))

	_, err := k.Connect(context.Background(), ConnectOptions{})
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, *asked)
	_, err = k.Connect(context.Background(), ConnectOptions{OnlyIfTrusted: true})
	assert.NotEqual(t, nil, err)
}

func TestKeystoreSigner(t *testing.T) {
	k, _ := newTestKeystore(t, true)
	w, _ := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, k.Create(w))

	_, err := k.Signer("someone else")
	assert.NotEqual(t, nil, err)

	signer, err := k.Signer(w.Account)
	assert.Equal(t, nil, err)
	assert.Equal(t, w.Account, signer.Account())

	msg := []byte("message")
	sig, err := signer.Sign(msg)
	assert.Equal(t, nil, err)
	pk := solana.MustPublicKeyFromBase58(w.Account)
	assert.Equal(t, true, ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig))
}

func TestSessionWithKeystore(t *testing.T) {
	k, _ := newTestKeystore(t, true)
	w, _ := WalletFromSeedWords(testSeedWords)
	assert.Equal(t, nil, k.Create(w))

	s := NewSession(k)
	assert.Equal(t, nil, s.AttemptSilentReauth(context.Background()))
	_, ok := s.Identity()
	assert.Equal(t, false, ok)

	account, err := s.ConnectExplicit(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, w.Account, account)

	signer, err := s.Signer()
	assert.Equal(t, nil, err)
	assert.Equal(t, w.Account, signer.Account())

	// a new process reconnects silently
	s2 := NewSession(k)
	assert.Equal(t, nil, s2.AttemptSilentReauth(context.Background()))
	account, ok = s2.Identity()
	assert.Equal(t, true, ok)
	assert.Equal(t, w.Account, account)
}
