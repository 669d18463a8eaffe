// Package lifecycle decides what the user can do next, from the wallet session and the
// state of the shared account.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"imgportal/engine/library"
	"imgportal/wallet"
)

// Session is the part of wallet.Session the controller drives.
type Session interface {
	AttemptSilentReauth(ctx context.Context) error
	ConnectExplicit(ctx context.Context) (library.Account, error)
	Disconnect(ctx context.Context)
	Subscribe(fn wallet.Listener) func()
}

type Gateway interface {
	InitializeAccount(ctx context.Context) error
	SubmitItem(ctx context.Context, link string) error
}

// Sync is the list coordinator.
type Sync interface {
	Refresh(ctx context.Context) (library.SyncState, error)
	Snapshot() library.SyncState
	InFlight() bool
	Reset()
}

// Announcer is told about accepted submissions. It must not block.
type Announcer interface {
	Announce(item library.Item)
}

// View is everything the presentation layer renders from.
type View struct {
	State      library.LifecycleState
	Account    library.Account
	Items      []library.Item
	Refreshing bool
	LastError  error
	// Notice is a blocking condition the user has to fix outside the app, such as having no wallet.
	Notice error
}

type Controller struct {
	session   Session
	gateway   Gateway
	sync      Sync
	announcer Announcer

	connected   bool
	connecting  bool
	generation  uint64
	account     library.Account
	lastErr     error
	notice      error
	started     bool
	stopped     bool
	unsubscribe func()
	mu          *deadlock.Mutex
}

func New(session Session, gateway Gateway, sync Sync) *Controller {
	return &Controller{
		session: session,
		gateway: gateway,
		sync:    sync,
		mu:      &deadlock.Mutex{},
	}
}

// WithAnnouncer sets an announcer for accepted submissions.
func (c *Controller) WithAnnouncer(a Announcer) *Controller {
	c.announcer = a
	return c
}

// Start subscribes to the wallet session and attempts a silent reconnect. Only the first call
// does anything.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.unsubscribe = c.session.Subscribe(c.onWalletEvent)
	c.mu.Unlock()

	if err := c.session.AttemptSilentReauth(ctx); err != nil {
		c.mu.Lock()
		c.notice = err
		c.mu.Unlock()
	}
}

// Stop unsubscribes from the wallet session. It is safe to call more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// State is the current lifecycle state. The connected substate follows the list: only a
// list that is Ready makes the account Ready.
func (c *Controller) State() library.LifecycleState {
	snapshot := c.sync.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(snapshot)
}

func (c *Controller) state(snapshot library.SyncState) library.LifecycleState {
	switch {
	case c.connecting:
		return library.Authenticating
	case !c.connected:
		return library.Disconnected
	case snapshot.Kind == library.SyncReady:
		return library.ConnectedReady
	}
	return library.ConnectedUninitialized
}

func (c *Controller) View() View {
	snapshot := c.sync.Snapshot()
	refreshing := c.sync.InFlight()
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:      c.state(snapshot),
		Account:    c.account,
		Refreshing: refreshing,
		LastError:  c.lastErr,
		Notice:     c.notice,
	}
	if v.State == library.ConnectedReady {
		v.Items = snapshot.Items
	}
	return v
}

// Connect asks the wallet for authorisation. Connecting while connected does nothing.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected || c.connecting {
		c.mu.Unlock()
		library.LogCLI("already connected", 3)
		return nil
	}
	c.connecting = true
	c.lastErr = nil
	c.mu.Unlock()

	_, err := c.session.ConnectExplicit(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false
	if err != nil {
		c.lastErr = err
		if library.KindOf(err) == library.KindWalletUnavailable {
			c.notice = err
		}
		return err
	}
	return c.lastErr
}

// Disconnect forgets the wallet identity and the list.
func (c *Controller) Disconnect(ctx context.Context) {
	c.session.Disconnect(ctx)
}

// Initialize provisions the shared account, then refreshes once.
func (c *Controller) Initialize(ctx context.Context) error {
	const op = "initialize"
	state := c.State()
	if state != library.ConnectedUninitialized {
		return c.fail(library.NewError(library.KindInvalidState, op, fmt.Errorf("account can not be initialized while %s", state)))
	}
	if err := c.gateway.InitializeAccount(ctx); err != nil {
		library.LogCLI(fmt.Sprintf("Error creating BaseAccount account: %s", err.Error()), 2)
		return c.fail(err)
	}
	library.LogCLI("Created the shared account", 4)
	return c.refresh(ctx)
}

// Submit appends link and refreshes. The refreshed list is what the remote returns, nothing
// is appended locally.
func (c *Controller) Submit(ctx context.Context, link string) error {
	const op = "submit"
	link = library.NormaliseLink(link)
	if len(link) == 0 {
		library.LogCLI("No link given!", 3)
		return c.fail(library.NewError(library.KindInvalidInput, op, fmt.Errorf("no link given")))
	}
	snapshot := c.sync.Snapshot()
	c.mu.Lock()
	state := c.state(snapshot)
	account := c.account
	c.mu.Unlock()
	if state != library.ConnectedReady {
		return c.fail(library.NewError(library.KindInvalidState, op, fmt.Errorf("items can not be submitted while %s", state)))
	}
	if err := c.gateway.SubmitItem(ctx, link); err != nil {
		library.LogCLI(fmt.Sprintf("Error sending link: %s", err.Error()), 2)
		return c.fail(err)
	}
	library.LogCLI(fmt.Sprintf("Link successfully sent to program: %s", link), 4)
	if c.announcer != nil {
		c.announcer.Announce(library.Item{Link: link, Submitter: account})
	}
	return c.refresh(ctx)
}

// Refresh re-reads the list. It is a no-op while disconnected.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return nil
	}
	return c.refresh(ctx)
}

func (c *Controller) onWalletEvent(ctx context.Context, e wallet.Event) {
	if !e.Connected {
		c.mu.Lock()
		c.generation++
		c.connected = false
		c.connecting = false
		c.account = ""
		c.lastErr = nil
		c.mu.Unlock()
		c.sync.Reset()
		library.LogCLI("wallet disconnected", 4)
		return
	}
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.connecting = true
	c.account = e.Account
	c.mu.Unlock()

	library.LogCLI("Fetching list...", 4)
	_, err := c.sync.Refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation || c.account != e.Account {
		// the wallet changed while the list was loading
		return
	}
	c.connecting = false
	c.connected = true
	c.lastErr = err
}

func (c *Controller) refresh(ctx context.Context) error {
	_, err := c.sync.Refresh(ctx)
	if err != nil {
		return c.fail(err)
	}
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	return err
}
