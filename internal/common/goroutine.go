package common

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ternarybob/arbor"
)

// SafeGo runs fn in a goroutine and recovers any panic so a failing
// background task (reload warm-up, event delivery) cannot take the server down.
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	go func() {
		defer recoverGoroutine(logger, name)
		fn()
	}()
}

func recoverGoroutine(logger arbor.ILogger, name string) {
	r := recover()
	if r == nil {
		return
	}

	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	if logger == nil {
		fmt.Fprintf(os.Stderr, "PANIC in goroutine %s: %v\n%s\n", name, r, buf[:n])
		return
	}

	logger.Error().
		Str("goroutine", name).
		Str("panic", fmt.Sprintf("%v", r)).
		Str("stack", string(buf[:n])).
		Msg("Recovered from panic in goroutine")
}
