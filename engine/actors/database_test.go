package actors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/spf13/viper"
)

func TestStore(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "wallet"))

	_, ok, err := s.Open("wallet")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)
	assert.Equal(t, false, s.Exists("wallet"))

	assert.Equal(t, nil, s.Write("wallet", []byte("one")))
	assert.Equal(t, nil, s.Write("wallet", []byte("two")))
	b, ok, err := s.Open("wallet")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "two", string(b))

	info, err := os.Stat(filepath.Join(s.Dir, "wallet.dat"))
	assert.Equal(t, nil, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(s.Dir)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(entries))
}

func TestTouch(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a", "config.yaml")
	assert.Equal(t, nil, Touch(name))
	assert.Equal(t, nil, Touch(name))
	_, err := os.Stat(name)
	assert.Equal(t, nil, err)
}

func TestDefaults(t *testing.T) {
	conf := viper.New()
	conf.Set("rootDir", "/tmp/portal/")
	SetDefaults(conf)
	assert.Equal(t, DefaultRPCEndpoint, conf.GetString("rpcEndpoint"))
	assert.Equal(t, "/tmp/portal/baseAccount.json", conf.GetString("baseAccountKeypair"))
	assert.Equal(t, "processed", conf.GetString("commitment"))
	assert.Equal(t, filepath.Join("/tmp/portal/", "data/", "wallet"), DataDir(conf, "wallet"))
	assert.Equal(t, 0, len(conf.GetStringSlice("announceRelays")))
}
