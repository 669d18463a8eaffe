package library

import (
	"crypto/sha256"
)

// Discriminator is the 8 byte prefix the program framework puts in front of account data and
// instruction data: the first bytes of sha256("<namespace>:<name>").
func Discriminator(namespace, name string) (d [8]byte) {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], h[:])
	return
}
