package actors

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store keeps small files for one component in a single directory.
type Store struct {
	Dir string
}

func NewStore(dir string) Store {
	return Store{Dir: dir}
}

// Open returns false if the file does not exist yet.
func (s Store) Open(db string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(db))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Write replaces the file. Data is written to a temporary file first so a crash never
// leaves a half written file behind.
func (s Store) Write(db string, b []byte) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, db+".*.tmp")
	if err != nil {
		return err
	}
	_, err = io.Copy(tmp, bytes.NewReader(b))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(db))
}

func (s Store) Exists(db string) bool {
	_, err := os.Stat(s.path(db))
	return err == nil
}

func (s Store) path(db string) string {
	return filepath.Join(s.Dir, db+".dat")
}

// Touch creates the file if it does not exist.
func Touch(name string) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("touch %s: %w", name, err)
	}
	return f.Close()
}
