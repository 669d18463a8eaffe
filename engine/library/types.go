package library

import (
	"fmt"
	"strings"
)

// Account is a base58 encoded public key.
type Account = string

// Item is one entry appended to the shared account. Items are never edited once appended.
type Item struct {
	Link      string  `json:"link"`
	Submitter Account `json:"submitter"`
}

// RemoteAccount is the shared on-chain record as last returned by the remote.
type RemoteAccount struct {
	Address Account
	Items   []Item
}

type SyncKind int

const (
	SyncUnknown SyncKind = iota
	SyncUninitialized
	SyncReady
)

func (k SyncKind) String() string {
	switch k {
	case SyncUninitialized:
		return "uninitialized"
	case SyncReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SyncState is the last known state of the shared list. Items is only meaningful when Kind is SyncReady.
type SyncState struct {
	Kind  SyncKind
	Items []Item
}

func (s SyncState) String() string {
	if s.Kind == SyncReady {
		return fmt.Sprintf("ready(%d items)", len(s.Items))
	}
	return s.Kind.String()
}

type LifecycleState int

const (
	Disconnected LifecycleState = iota
	Authenticating
	ConnectedUninitialized
	ConnectedReady
)

func (s LifecycleState) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case ConnectedUninitialized:
		return "connected.uninitialized"
	case ConnectedReady:
		return "connected.ready"
	default:
		return "disconnected"
	}
}

func (s LifecycleState) Connected() bool {
	return s == ConnectedUninitialized || s == ConnectedReady
}

// Signer co-signs transaction messages on behalf of an account.
type Signer interface {
	Account() Account
	Sign(message []byte) ([]byte, error)
}

// NormaliseLink trims surrounding whitespace from a submitted link.
func NormaliseLink(link string) string {
	return strings.TrimSpace(link)
}
