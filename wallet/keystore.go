package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sasha-s/go-deadlock"
	"imgportal/engine/actors"
	"imgportal/engine/library"
)

const (
	walletDb = "wallet"
	trustDb  = "trusted"
)

// Approver asks the user whether app may connect to account.
type Approver interface {
	Approve(ctx context.Context, app string, account library.Account) (bool, error)
}

type ApproverFunc func(ctx context.Context, app string, account library.Account) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, app string, account library.Account) (bool, error) {
	return f(ctx, app, account)
}

// Keystore is a Provider backed by a wallet file on disk. It remembers which apps the user
// approved so they can reconnect silently.
type Keystore struct {
	store    actors.Store
	app      string
	approver Approver
	mu       *deadlock.Mutex
}

func NewKeystore(store actors.Store, app string, approver Approver) *Keystore {
	return &Keystore{
		store:    store,
		app:      app,
		approver: approver,
		mu:       &deadlock.Mutex{},
	}
}

// IsAvailable is true once a wallet file exists and parses.
func (k *Keystore) IsAvailable() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok, err := k.load()
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error parsing wallet file: %s", err.Error()), 2)
	}
	return ok
}

func (k *Keystore) Connect(ctx context.Context, opts ConnectOptions) (library.Account, error) {
	k.mu.Lock()
	w, ok, err := k.load()
	if err != nil {
		k.mu.Unlock()
		return "", err
	}
	if !ok {
		k.mu.Unlock()
		return "", fmt.Errorf("no wallet in %s", k.store.Dir)
	}
	trusted, err := k.trusted()
	k.mu.Unlock()
	if err != nil {
		return "", err
	}
	if _, exists := trusted[k.app]; exists {
		return w.Account, nil
	}
	if opts.OnlyIfTrusted {
		return "", fmt.Errorf("%s is not trusted by this wallet", k.app)
	}
	if k.approver == nil {
		return "", fmt.Errorf("no way to ask the user for approval")
	}
	approved, err := k.approver.Approve(ctx, k.app, w.Account)
	if err != nil {
		return "", err
	}
	if !approved {
		return "", fmt.Errorf("user rejected the request")
	}
	if err := k.Trust(k.app); err != nil {
		return "", err
	}
	return w.Account, nil
}

func (k *Keystore) Signer(account library.Account) (library.Signer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	w, ok, err := k.load()
	if err != nil {
		return nil, err
	}
	if !ok || w.Account != account {
		return nil, fmt.Errorf("wallet does not hold %s", account)
	}
	sk, err := solana.PrivateKeyFromBase58(w.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("error decoding wallet key: %w", err)
	}
	return KeySigner(sk), nil
}

// Wallet returns the stored wallet.
func (k *Keystore) Wallet() (Wallet, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.load()
}

// Create stores w. An existing wallet is never overwritten.
func (k *Keystore) Create(w Wallet) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.store.Exists(walletDb) {
		return fmt.Errorf("a wallet already exists in %s", k.store.Dir)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return k.store.Write(walletDb, b)
}

// Trust records that the user approved app.
func (k *Keystore) Trust(app string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	trusted, err := k.trusted()
	if err != nil {
		return err
	}
	trusted[app] = struct{}{}
	b, err := json.Marshal(trusted)
	if err != nil {
		return err
	}
	return k.store.Write(trustDb, b)
}

// Revoke forgets app, so the next connect prompts again.
func (k *Keystore) Revoke(app string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	trusted, err := k.trusted()
	if err != nil {
		return err
	}
	delete(trusted, app)
	b, err := json.Marshal(trusted)
	if err != nil {
		return err
	}
	return k.store.Write(trustDb, b)
}

func (k *Keystore) load() (w Wallet, ok bool, err error) {
	b, ok, err := k.store.Open(walletDb)
	if err != nil || !ok {
		return Wallet{}, false, err
	}
	if err = json.Unmarshal(b, &w); err != nil {
		return Wallet{}, false, fmt.Errorf("error parsing wallet file: %w", err)
	}
	if len(w.Account) == 0 || len(w.PrivateKey) == 0 {
		return Wallet{}, false, fmt.Errorf("wallet file has no key")
	}
	return w, true, nil
}

func (k *Keystore) trusted() (map[string]struct{}, error) {
	trusted := make(map[string]struct{})
	b, ok, err := k.store.Open(trustDb)
	if err != nil || !ok {
		return trusted, err
	}
	if err := json.Unmarshal(b, &trusted); err != nil {
		return nil, fmt.Errorf("error parsing trust file: %w", err)
	}
	return trusted, nil
}
