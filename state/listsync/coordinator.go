// Package listsync owns the last known copy of the shared list.
//
// Refreshes are serialised: at most one fetch is in flight. Requests that arrive while a fetch
// is outstanding wait for the next fetch, and they all share it. A fetch that has been
// superseded by a newer request by the time it lands is discarded, so a stale response can
// never overwrite a fresher one.
package listsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
	"imgportal/engine/library"
)

// Fetcher reads the shared account. found=false means the account does not exist yet.
type Fetcher interface {
	FetchAccount(ctx context.Context) (library.RemoteAccount, bool, error)
}

type outcome struct {
	state library.SyncState
	err   error
}

type waiter struct {
	ticket uint64
	done   chan outcome
}

type Coordinator struct {
	fetcher Fetcher
	state   library.SyncState
	issued  uint64
	running bool
	waiters *library.Queue[*waiter]
	mu      *deadlock.Mutex
}

func New(fetcher Fetcher) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		waiters: library.NewQueue[*waiter](4),
		mu:      &deadlock.Mutex{},
	}
}

// Snapshot returns the current SyncState. The item slice is a copy.
func (c *Coordinator) Snapshot() library.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyState(c.state)
}

// InFlight reports whether a fetch is outstanding.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Refresh issues a refresh and waits for the first fetch dispatched after it to be applied.
// On a fetch error the previous state is kept and the error returned. If ctx ends first the
// request is still served, only the wait is abandoned.
func (c *Coordinator) Refresh(ctx context.Context) (library.SyncState, error) {
	c.mu.Lock()
	c.issued++
	w := &waiter{ticket: c.issued, done: make(chan outcome, 1)}
	c.waiters.Push(w)
	if !c.running {
		c.running = true
		go c.loop(context.WithoutCancel(ctx))
	}
	c.mu.Unlock()

	select {
	case o := <-w.done:
		return o.state, o.err
	case <-ctx.Done():
		return c.Snapshot(), contextError("refresh", ctx.Err())
	}
}

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return library.NewError(library.KindTimeout, op, err)
	}
	return library.NewError(library.KindCanceled, op, err)
}

// Reset forgets the list and fails every pending request. A fetch still in flight is
// discarded when it lands.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.state = library.SyncState{Kind: library.SyncUnknown}
	for {
		w, ok := c.waiters.Pop()
		if !ok {
			break
		}
		w.done <- outcome{state: c.state, err: library.NewError(library.KindNotConnected, "refresh", fmt.Errorf("list was reset"))}
	}
}

func (c *Coordinator) loop(ctx context.Context) {
	for {
		c.mu.Lock()
		if c.waiters.Len() == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		target := c.issued
		c.mu.Unlock()

		account, found, err := c.fetcher.FetchAccount(ctx)

		c.mu.Lock()
		if c.issued > target {
			// a newer request was issued while this fetch was out, its fetch serves everyone
			library.LogCLI(fmt.Sprintf("discarding refresh %d, superseded by %d", target, c.issued), 3)
			c.mu.Unlock()
			continue
		}
		switch {
		case err != nil:
			library.LogCLI(fmt.Sprintf("Error in refresh: %s", err.Error()), 2)
		case !found:
			c.state = library.SyncState{Kind: library.SyncUninitialized}
		default:
			c.state = library.SyncState{Kind: library.SyncReady, Items: copyItems(account.Items)}
		}
		o := outcome{state: copyState(c.state), err: err}
		for {
			w, ok := c.waiters.Peek()
			if !ok || w.ticket > target {
				break
			}
			c.waiters.Pop()
			w.done <- o
		}
		c.mu.Unlock()
	}
}

func copyState(s library.SyncState) library.SyncState {
	if s.Kind != library.SyncReady {
		s.Items = nil
		return s
	}
	s.Items = copyItems(s.Items)
	return s
}

func copyItems(items []library.Item) []library.Item {
	if items == nil {
		return []library.Item{}
	}
	return slices.Clone(items)
}
