package library

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/mborders/logmatic"
)

var logLevel int32 = 4

// SetLogLevel drops messages with a level above max. Levels 0 and 1 are always printed.
func SetLogLevel(max int) {
	atomic.StoreInt32(&logLevel, int32(max))
}

// Logs to the terminal. Level options are: 0 fatal error (stack dump), 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
func LogCLI(message interface{}, level int) {
	if level > 1 && int32(level) > atomic.LoadInt32(&logLevel) {
		return
	}
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	l.ExitOnFatal = false
	message = fmt.Sprint(message)
	switch level {
	case 5:
		debug.PrintStack()
		l.Trace("%v", message)
	case 4:
		l.Info("%v", message)
	case 3:
		l.Debug("%v", message)
	case 2:
		l.Warn("%v", message)
	case 1:
		debug.PrintStack()
		l.Error("%v", message)
	default:
		debug.PrintStack()
		l.Error("%v", message)
	}
}
