package program

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-playground/assert/v2"
	"imgportal/engine/library"
	"imgportal/gateway"
)

type testSigner struct {
	key solana.PrivateKey
}

func (s testSigner) Account() library.Account { return s.key.PublicKey().String() }

func (s testSigner) Sign(message []byte) ([]byte, error) {
	sig, err := s.key.Sign(message)
	return sig[:], err
}

func newTestClient(t *testing.T) (*Client, solana.PrivateKey) {
	base, err := solana.NewRandomPrivateKey()
	assert.Equal(t, nil, err)
	program := solana.NewWallet().PublicKey()
	return New("http://127.0.0.1:1", program, base, Options{}), base
}

func TestInstructionAccounts(t *testing.T) {
	c, base := newTestClient(t)
	user := solana.NewWallet().PublicKey()

	ix, err := c.instruction(gateway.MethodInitialize, nil, user)
	assert.Equal(t, nil, err)
	accounts := ix.Accounts()
	assert.Equal(t, 3, len(accounts))
	assert.Equal(t, base.PublicKey(), accounts[0].PublicKey)
	assert.Equal(t, true, accounts[0].IsSigner)
	assert.Equal(t, user, accounts[1].PublicKey)
	assert.Equal(t, solana.SystemProgramID, accounts[2].PublicKey)

	ix, err = c.instruction(gateway.MethodAddItem, []interface{}{"link"}, user)
	assert.Equal(t, nil, err)
	accounts = ix.Accounts()
	assert.Equal(t, 2, len(accounts))
	assert.Equal(t, false, accounts[0].IsSigner)
	assert.Equal(t, true, accounts[0].IsWritable)
	assert.Equal(t, true, accounts[1].IsSigner)

	_, err = c.instruction(gateway.Method("nope"), nil, user)
	assert.NotEqual(t, nil, err)
}

func TestSignCollectsEveryRequiredSignature(t *testing.T) {
	c, _ := newTestClient(t)
	userKey, err := solana.NewRandomPrivateKey()
	assert.Equal(t, nil, err)
	user := userKey.PublicKey()

	ix, err := c.instruction(gateway.MethodInitialize, nil, user)
	assert.Equal(t, nil, err)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(user))
	assert.Equal(t, nil, err)

	assert.Equal(t, nil, c.sign(tx, user, testSigner{userKey}))
	assert.Equal(t, 2, len(tx.Signatures))
	msg, err := tx.Message.MarshalBinary()
	assert.Equal(t, nil, err)
	for i, sig := range tx.Signatures {
		key := tx.Message.AccountKeys[i]
		assert.Equal(t, true, ed25519.Verify(ed25519.PublicKey(key[:]), msg, sig[:]))
	}
}

func TestSignRefusesUnknownSigner(t *testing.T) {
	c, _ := newTestClient(t)
	userKey, _ := solana.NewRandomPrivateKey()
	other, _ := solana.NewRandomPrivateKey()
	user := userKey.PublicKey()

	ix, _ := c.instruction(gateway.MethodAddItem, []interface{}{"link"}, user)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(other.PublicKey()))
	assert.Equal(t, nil, err)
	assert.NotEqual(t, nil, c.sign(tx, user, testSigner{userKey}))
}

func TestTagMessage(t *testing.T) {
	assert.Equal(t, true, errors.Is(tagMessage("Program log: AnchorError caused by account: base_account. Error Code: AccountNotInitialized."), library.ErrRecordNotFound))
	assert.Equal(t, true, errors.Is(tagMessage("custom program error: 0xbc4"), library.ErrRecordNotFound))
	assert.Equal(t, true, errors.Is(tagMessage("Allocate: account Address { address: x } already in use"), library.ErrRejected))
}

func TestReached(t *testing.T) {
	assert.Equal(t, true, reached(rpc.ConfirmationStatusProcessed, rpc.CommitmentProcessed))
	assert.Equal(t, false, reached(rpc.ConfirmationStatusProcessed, rpc.CommitmentFinalized))
	assert.Equal(t, true, reached(rpc.ConfirmationStatusFinalized, rpc.CommitmentConfirmed))
	assert.Equal(t, false, reached("", rpc.CommitmentProcessed))
}
