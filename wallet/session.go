package wallet

import (
	"context"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
	"imgportal/engine/library"
)

// Event is emitted on every authorisation transition.
type Event struct {
	Account   library.Account
	Connected bool
}

type Listener func(ctx context.Context, e Event)

// Session holds the WalletIdentity for the lifetime of the process. Transitions are delivered
// to listeners synchronously, after the session lock is released.
type Session struct {
	provider  Provider
	account   library.Account
	listeners map[int]Listener
	nextID    int
	mu        *deadlock.Mutex
}

// NewSession builds a session around provider. A nil provider means the host has no wallet.
func NewSession(provider Provider) *Session {
	return &Session{
		provider:  provider,
		listeners: make(map[int]Listener),
		mu:        &deadlock.Mutex{},
	}
}

// Subscribe registers fn for transitions and returns a func that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Identity returns the authorised account, if any.
func (s *Session) Identity() (library.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, len(s.account) > 0
}

// AttemptSilentReauth reconnects without prompting, if the provider already trusts us.
// Rejection and incompatibility are logged and swallowed. The only error returned is
// ErrWalletUnavailable, when the host has no wallet provider at all.
func (s *Session) AttemptSilentReauth(ctx context.Context) error {
	if s.provider == nil {
		library.LogCLI("no wallet provider found, create one with `portal wallet new`", 2)
		return library.NewError(library.KindWalletUnavailable, "silent reauth", nil)
	}
	if !s.provider.IsAvailable() {
		library.LogCLI("wallet provider is not compatible, staying disconnected", 3)
		return nil
	}
	account, err := s.provider.Connect(ctx, ConnectOptions{OnlyIfTrusted: true})
	if err != nil {
		library.LogCLI(fmt.Sprintf("silent reauth did not connect: %s", err.Error()), 3)
		s.clear(ctx)
		return nil
	}
	if len(account) == 0 {
		library.LogCLI("silent reauth returned an empty account", 2)
		return nil
	}
	library.LogCLI(fmt.Sprintf("Connected with Public Key: %s", account), 4)
	s.set(ctx, account)
	return nil
}

// ConnectExplicit always prompts the user through the provider.
func (s *Session) ConnectExplicit(ctx context.Context) (library.Account, error) {
	if s.provider == nil || !s.provider.IsAvailable() {
		return "", library.NewError(library.KindWalletUnavailable, "connect", fmt.Errorf("no compatible wallet provider found"))
	}
	account, err := s.provider.Connect(ctx, ConnectOptions{})
	if err != nil {
		library.LogCLI(fmt.Sprintf("connect failed: %s", err.Error()), 2)
		return "", library.NewError(library.KindAuthRejected, "connect", err)
	}
	if len(account) == 0 {
		return "", library.NewError(library.KindAuthRejected, "connect", fmt.Errorf("provider returned an empty account"))
	}
	library.LogCLI(fmt.Sprintf("Connected with Public Key: %s", account), 4)
	s.set(ctx, account)
	return account, nil
}

// Disconnect clears the identity. Listeners are only told if there was one.
func (s *Session) Disconnect(ctx context.Context) {
	s.clear(ctx)
}

// Signer returns a co-signer for the authorised account.
func (s *Session) Signer() (library.Signer, error) {
	account, ok := s.Identity()
	if !ok {
		return nil, library.NewError(library.KindNotConnected, "signer", nil)
	}
	sp, ok := s.provider.(SigningProvider)
	if !ok {
		return nil, library.NewError(library.KindWalletUnavailable, "signer", fmt.Errorf("provider cannot sign"))
	}
	signer, err := sp.Signer(account)
	if err != nil {
		return nil, library.NewError(library.KindAuthRejected, "signer", err)
	}
	return signer, nil
}

func (s *Session) set(ctx context.Context, account library.Account) {
	s.mu.Lock()
	s.account = account
	listeners := s.snapshotListeners()
	s.mu.Unlock()
	notify(ctx, listeners, Event{Account: account, Connected: true})
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	if len(s.account) == 0 {
		s.mu.Unlock()
		return
	}
	s.account = ""
	listeners := s.snapshotListeners()
	s.mu.Unlock()
	notify(ctx, listeners, Event{})
}

func (s *Session) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	// deliver in subscription order
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

func notify(ctx context.Context, listeners []Listener, e Event) {
	for _, fn := range listeners {
		fn(ctx, e)
	}
}
