package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/mkortel/panelauth/internal/guard"
)

// consoleUI is the terminal stand-in for the browser shell: navigation is
// printed, notifications go to stderr, and deferred actions queue up until
// the current command finishes.
type consoleUI struct {
	out     io.Writer
	errOut  io.Writer
	history *guard.History

	mu    sync.Mutex
	queue []func()
}

func newConsoleUI(out, errOut io.Writer) *consoleUI {
	return &consoleUI{out: out, errOut: errOut}
}

func (u *consoleUI) Navigate(route string) {
	if u.history != nil {
		u.history.Record(route)
	}
	fmt.Fprintf(u.out, "-> %s\n", route)
}

func (u *consoleUI) Notify(message string) {
	fmt.Fprintln(u.errOut, message)
}

func (u *consoleUI) Dispatch(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.queue = append(u.queue, fn)
}

// Flush runs and drains the deferred queue.
func (u *consoleUI) Flush() {
	u.mu.Lock()
	pending := u.queue
	u.queue = nil
	u.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
