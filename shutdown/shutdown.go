// Package shutdown runs a callback when the process is asked to terminate.
package shutdown

import (
	"os"
	"os/signal"
)

// Watch calls fn once on the first termination signal. The returned stop func unregisters it.
func Watch(fn func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			fn()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
