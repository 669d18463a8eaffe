// Package program is the RPC client for the image program on Solana.
package program

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"imgportal/engine/library"
	"imgportal/gateway"
)

// Error codes the program framework reports when an account the instruction needs is missing.
var missingAccountMarkers = []string{
	"AccountNotInitialized",
	"custom program error: 0xbc4",
	"AccountNotFound",
}

type Options struct {
	Commitment   rpc.CommitmentType
	PollInterval time.Duration
}

type Client struct {
	rpc         *rpc.Client
	programID   solana.PublicKey
	baseAccount solana.PrivateKey
	opts        Options
}

// New connects nothing; the first request opens the connection.
func New(endpoint string, programID solana.PublicKey, baseAccount solana.PrivateKey, opts Options) *Client {
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentProcessed
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Client{
		rpc:         rpc.New(endpoint),
		programID:   programID,
		baseAccount: baseAccount,
		opts:        opts,
	}
}

// BaseAccount is the address of the shared account.
func (c *Client) BaseAccount() solana.PublicKey {
	return c.baseAccount.PublicKey()
}

func (c *Client) Fetch(ctx context.Context, address library.Account) ([]library.Item, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("account address %s: %w", address, err)
	}
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, pk, &rpc.GetAccountInfoOpts{
		Commitment: c.opts.Commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("account %s: %w", address, library.ErrRecordNotFound)
	}
	if err != nil {
		return nil, tagRPCError(err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("account %s: %w", address, library.ErrRecordNotFound)
	}
	if !out.Value.Owner.Equals(c.programID) {
		return nil, fmt.Errorf("account %s is owned by %s: %w", address, out.Value.Owner, library.ErrMalformed)
	}
	return decodeBaseAccount(out.Value.Data.GetBinary())
}

// Call sends one instruction co-signed by signer and waits until it is confirmed.
func (c *Client) Call(ctx context.Context, method gateway.Method, args []interface{}, signer library.Signer) (string, error) {
	user, err := solana.PublicKeyFromBase58(signer.Account())
	if err != nil {
		return "", fmt.Errorf("signer account: %w", err)
	}
	ix, err := c.instruction(method, args, user)
	if err != nil {
		return "", err
	}
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
	if err != nil {
		return "", tagRPCError(err)
	}
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, recent.Value.Blockhash, solana.TransactionPayer(user))
	if err != nil {
		return "", err
	}
	if err := c.sign(tx, user, signer); err != nil {
		return "", err
	}
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.opts.Commitment,
	})
	if err != nil {
		return "", tagRPCError(err)
	}
	if err := c.confirm(ctx, sig); err != nil {
		return sig.String(), err
	}
	return sig.String(), nil
}

func (c *Client) instruction(method gateway.Method, args []interface{}, user solana.PublicKey) (solana.Instruction, error) {
	var accounts solana.AccountMetaSlice
	switch method {
	case gateway.MethodInitialize:
		accounts = solana.AccountMetaSlice{
			solana.Meta(c.BaseAccount()).WRITE().SIGNER(),
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
		}
	case gateway.MethodAddItem:
		accounts = solana.AccountMetaSlice{
			solana.Meta(c.BaseAccount()).WRITE(),
			solana.Meta(user).WRITE().SIGNER(),
		}
	default:
		return nil, fmt.Errorf("unknown method %s", method)
	}
	data, err := instructionData(string(method), args)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(c.programID, accounts, data), nil
}

// sign collects a signature for every required signer. The wallet signs for the user and the
// locally held base account key signs for itself.
func (c *Client) sign(tx *solana.Transaction, user solana.PublicKey, signer library.Signer) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return err
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return fmt.Errorf("message requires %d signatures but has %d keys", required, len(tx.Message.AccountKeys))
	}
	tx.Signatures = make([]solana.Signature, 0, required)
	for _, key := range tx.Message.AccountKeys[:required] {
		var raw []byte
		switch {
		case key.Equals(user):
			raw, err = signer.Sign(msg)
		case key.Equals(c.BaseAccount()):
			var s solana.Signature
			s, err = c.baseAccount.Sign(msg)
			raw = s[:]
		default:
			return fmt.Errorf("no signer for %s", key)
		}
		if err != nil {
			return fmt.Errorf("signing for %s: %w", key, err)
		}
		var sig solana.Signature
		if len(raw) != len(sig) {
			return fmt.Errorf("signature for %s is %d bytes", key, len(raw))
		}
		copy(sig[:], raw)
		tx.Signatures = append(tx.Signatures, sig)
	}
	return nil
}

// confirm polls the signature status until it reaches the configured commitment.
func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return tagRPCError(err)
		}
		if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v: %w", sig, status.Err, tagStatus(status.Err))
			}
			if reached(status.ConfirmationStatus, c.opts.Commitment) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := map[string]int{
		string(rpc.ConfirmationStatusProcessed): 1,
		string(rpc.ConfirmationStatusConfirmed): 2,
		string(rpc.ConfirmationStatusFinalized): 3,
	}
	got, ok := rank[string(status)]
	if !ok {
		return false
	}
	need, ok := rank[string(want)]
	if !ok {
		need = 1
	}
	return got >= need
}

// tagRPCError marks errors the node answered with. Anything else is left for the gateway to
// treat as the endpoint being unreachable.
func tagRPCError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), tagMessage(fmt.Sprintf("%s %v", rpcErr.Message, rpcErr.Data)))
}

func tagStatus(status interface{}) error {
	return tagMessage(fmt.Sprintf("%v", status))
}

func tagMessage(msg string) error {
	for _, marker := range missingAccountMarkers {
		if strings.Contains(msg, marker) {
			return library.ErrRecordNotFound
		}
	}
	return library.ErrRejected
}
