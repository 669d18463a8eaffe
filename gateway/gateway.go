// Package gateway is the only way the client reads or writes the shared remote account.
// Every failure leaving it is a *library.Error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"imgportal/engine/library"
)

type Method string

const (
	MethodInitialize Method = "start_stuff_off"
	MethodAddItem    Method = "add_img"
)

// Client talks to the RPC endpoint and the on-chain program. Implementations tag failures
// with library.ErrRecordNotFound, library.ErrRejected or library.ErrMalformed where they can.
type Client interface {
	Fetch(ctx context.Context, address library.Account) ([]library.Item, error)
	Call(ctx context.Context, method Method, args []interface{}, signer library.Signer) (string, error)
}

// SignerSource supplies the authorised wallet.
type SignerSource interface {
	Identity() (library.Account, bool)
	Signer() (library.Signer, error)
}

type Gateway struct {
	client  Client
	address library.Account
	wallet  SignerSource
	timeout time.Duration
}

// New builds a gateway for the account at address. A zero timeout leaves calls unbounded.
func New(client Client, address library.Account, wallet SignerSource, timeout time.Duration) *Gateway {
	return &Gateway{
		client:  client,
		address: address,
		wallet:  wallet,
		timeout: timeout,
	}
}

func (g *Gateway) Address() library.Account {
	return g.address
}

// FetchAccount returns found=false when the account has not been initialized yet.
func (g *Gateway) FetchAccount(ctx context.Context) (library.RemoteAccount, bool, error) {
	const op = "fetch account"
	if _, ok := g.wallet.Identity(); !ok {
		return library.RemoteAccount{}, false, library.NewError(library.KindNotConnected, op, nil)
	}
	ctx, cancel := g.bound(ctx)
	defer cancel()
	sane := library.ValidateSaneExecutionTime()
	items, err := g.client.Fetch(ctx, g.address)
	sane()
	if errors.Is(err, library.ErrRecordNotFound) {
		return library.RemoteAccount{}, false, nil
	}
	if err != nil {
		return library.RemoteAccount{}, false, classify(op, err)
	}
	return library.RemoteAccount{Address: g.address, Items: items}, true, nil
}

// InitializeAccount provisions the account. Calling it on an existing account fails remotely.
func (g *Gateway) InitializeAccount(ctx context.Context) error {
	const op = "initialize account"
	_, err := g.call(ctx, op, MethodInitialize, nil)
	return err
}

// SubmitItem appends link. Empty links never reach the remote.
func (g *Gateway) SubmitItem(ctx context.Context, link string) error {
	const op = "submit item"
	link = library.NormaliseLink(link)
	if len(link) == 0 {
		return library.NewError(library.KindInvalidInput, op, fmt.Errorf("no link given"))
	}
	_, err := g.call(ctx, op, MethodAddItem, []interface{}{link})
	return err
}

func (g *Gateway) call(ctx context.Context, op string, method Method, args []interface{}) (string, error) {
	signer, err := g.wallet.Signer()
	if err != nil {
		return "", library.NewError(library.KindOf(err), op, err)
	}
	ctx, cancel := g.bound(ctx)
	defer cancel()
	sane := library.ValidateSaneExecutionTime()
	sig, err := g.client.Call(ctx, method, args, signer)
	sane()
	if err != nil {
		return "", classify(op, err)
	}
	library.LogCLI(fmt.Sprintf("%s confirmed in transaction %s", method, sig), 4)
	return sig, nil
}

func (g *Gateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return context.WithCancel(ctx)
}

// classify converts a raw client failure into one of the error kinds.
func classify(op string, err error) error {
	var le *library.Error
	if errors.As(err, &le) {
		return err
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return library.NewError(library.KindTimeout, op, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return library.NewError(library.KindTimeout, op, err)
	case errors.Is(err, library.ErrRejected):
		return library.NewError(library.KindRemoteRejected, op, err)
	case errors.Is(err, library.ErrMalformed):
		return library.NewError(library.KindRemoteMalformed, op, err)
	case errors.Is(err, library.ErrRecordNotFound):
		// writes against a missing account
		return library.NewError(library.KindAccountUninitialized, op, err)
	}
	return library.NewError(library.KindRemoteUnreachable, op, err)
}
