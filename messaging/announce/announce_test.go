package announce

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"imgportal/engine/library"
	"imgportal/wallet"
)

func TestNewWithoutRelays(t *testing.T) {
	assert.Equal(t, true, New(nil, "key", "pub", "BASE") == nil)
	assert.Equal(t, true, New([]string{"wss://relay.example"}, "", "pub", "BASE") == nil)
}

func TestBuildEvent(t *testing.T) {
	w, err := wallet.WalletFromSeedWords("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	assert.Equal(t, nil, err)
	item := library.Item{Link: "https://example.com/a.png", Submitter: w.Account}

	e, err := BuildEvent(item, "BASE", w.NostrPrivateKey, w.NostrPubKey, time.Unix(1700000000, 0))
	assert.Equal(t, nil, err)
	assert.Equal(t, w.NostrPubKey, e.PubKey)
	assert.Equal(t, item.Link, e.Content)
	assert.Equal(t, noteKind, e.Kind)

	ok, err := e.CheckSignature()
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)

	assert.Equal(t, item.Link, e.Tags.GetFirst([]string{"r"}).Value())
	assert.Equal(t, w.Account, e.Tags.GetFirst([]string{"solana"}).Value())
	assert.Equal(t, "solana:BASE", e.Tags.GetFirst([]string{"a"}).Value())
}
