package library

import (
	"encoding/hex"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestDiscriminator(t *testing.T) {
	d := Discriminator("account", "BaseAccount")
	// sha256("account:BaseAccount")[:8]
	assert.Equal(t, 16, len(hex.EncodeToString(d[:])))
	assert.NotEqual(t, d, Discriminator("global", "add_img"))
	assert.NotEqual(t, Discriminator("global", "add_img"), Discriminator("global", "start_stuff_off"))
	assert.Equal(t, Discriminator("global", "add_img"), Discriminator("global", "add_img"))
}
