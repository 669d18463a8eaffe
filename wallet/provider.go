// Package wallet tracks whether a wallet has authorised this client and on which account.
package wallet

import (
	"context"

	"imgportal/engine/library"
)

type ConnectOptions struct {
	// OnlyIfTrusted asks the provider to succeed without prompting, and only if the user
	// trusted this app before.
	OnlyIfTrusted bool
}

// Provider is a wallet living in the host environment.
type Provider interface {
	// IsAvailable reports whether the provider identifies itself as a compatible wallet.
	IsAvailable() bool
	Connect(ctx context.Context, opts ConnectOptions) (library.Account, error)
}

// SigningProvider is a Provider that can co-sign for an account it connected.
type SigningProvider interface {
	Provider
	Signer(account library.Account) (library.Signer, error)
}
