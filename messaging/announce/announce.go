// Package announce publishes accepted submissions as nostr notes. Delivery is best effort:
// failures are logged and never reach the user.
package announce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"imgportal/engine/library"
)

const noteKind = 1

// Publisher signs notes with the wallet's nostr key and sends them to every relay.
type Publisher struct {
	relays     []string
	privateKey string
	pubKey     string
	origin     library.Account
	timeout    time.Duration
	wg         *sync.WaitGroup
}

// New returns nil when there is nothing to publish to, so callers can skip announcing.
func New(relays []string, privateKey, pubKey string, origin library.Account) *Publisher {
	if len(relays) == 0 || len(privateKey) == 0 {
		return nil
	}
	return &Publisher{
		relays:     relays,
		privateKey: privateKey,
		pubKey:     pubKey,
		origin:     origin,
		timeout:    10 * time.Second,
		wg:         &sync.WaitGroup{},
	}
}

// Announce publishes in the background.
func (p *Publisher) Announce(item library.Item) {
	e, err := BuildEvent(item, p.origin, p.privateKey, p.pubKey, time.Now())
	if err != nil {
		library.LogCLI(err.Error(), 2)
		return
	}
	for _, url := range p.relays {
		p.wg.Add(1)
		go func(url string) {
			defer p.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			defer cancel()
			if err := publish(ctx, url, e); err != nil {
				library.LogCLI(fmt.Sprintf("announce to %s failed: %s", url, err.Error()), 2)
				return
			}
			library.LogCLI(fmt.Sprintf("announced %s to %s", item.Link, url), 3)
		}(url)
	}
}

// Wait blocks until every announcement started so far has finished.
func (p *Publisher) Wait() {
	p.wg.Wait()
}

// BuildEvent returns a signed note describing item.
func BuildEvent(item library.Item, origin library.Account, privateKey, pubKey string, at time.Time) (nostr.Event, error) {
	e := nostr.Event{
		PubKey:    pubKey,
		CreatedAt: nostr.Timestamp(at.Unix()),
		Kind:      noteKind,
		Tags:      library.ItemTags(item, origin),
		Content:   item.Link,
	}
	if err := e.Sign(privateKey); err != nil {
		return nostr.Event{}, fmt.Errorf("signing announcement: %w", err)
	}
	return e, nil
}

func publish(ctx context.Context, url string, e nostr.Event) error {
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return err
	}
	defer relay.Close()
	_, err = relay.Publish(ctx, e)
	return err
}
