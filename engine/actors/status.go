package actors

import (
	"sync"
)

var terminateChan = make(chan struct{})
var terminateOnce sync.Once

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// Terminate closes the terminate channel. It is safe to call more than once.
func Terminate() {
	terminateOnce.Do(func() {
		close(terminateChan)
	})
}
