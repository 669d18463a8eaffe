package library

import (
	"github.com/nbd-wtf/go-nostr"
)

// ItemTags describes an item for a nostr note: the link as an "r" tag and the submitting
// account as a "solana" tag.
func ItemTags(item Item, origin Account) nostr.Tags {
	tags := nostr.Tags{
		nostr.Tag{"r", item.Link},
		nostr.Tag{"solana", item.Submitter},
	}
	if len(origin) > 0 {
		tags = append(tags, nostr.Tag{"a", "solana:" + origin})
	}
	return tags
}
