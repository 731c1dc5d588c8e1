package core

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"

	"golang.org/x/sys/unix"
)

// SignalManager owns the session's process-wide signal policy for the
// life of the session: an interrupt never terminates the session itself,
// and terminated background children are reaped as their state changes
// so they never linger as zombies.
type SignalManager struct {
	out io.Writer

	mu sync.Mutex
	bg map[int]string // pid -> program name

	intr chan os.Signal
	chld chan os.Signal
	done chan struct{}
}

// NewSignalManager installs the session's interrupt and child-reaping
// handlers. Completion notices for background children go to out.
func NewSignalManager(out io.Writer) *SignalManager {
	m := &SignalManager{
		out:  out,
		bg:   make(map[int]string),
		intr: make(chan os.Signal, 1),
		chld: make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(m.intr, os.Interrupt)
	signal.Notify(m.chld, unix.SIGCHLD)
	go m.interruptLoop()
	go m.reapLoop()
	return m
}

// Track registers a background child for asynchronous reaping.
func (m *SignalManager) Track(pid int, name string) {
	m.mu.Lock()
	m.bg[pid] = name
	m.mu.Unlock()

	// The child may already have exited; catch up immediately.
	m.reap()
}

// Pending reports how many background children are still tracked, with
// their pids in ascending order.
func (m *SignalManager) Pending() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pids []int
	for pid := range m.bg {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// Close uninstalls the handlers. Still-running background children keep
// running; they are the OS's problem once the session exits.
func (m *SignalManager) Close() error {
	signal.Stop(m.intr)
	signal.Stop(m.chld)
	close(m.done)
	return nil
}

// interruptLoop swallows interrupts so Ctrl-C never terminates the
// session. A foreground child shares the terminal's process group and
// receives the same signal with its default disposition, so it can still
// be interrupted.
func (m *SignalManager) interruptLoop() {
	for {
		select {
		case <-m.done:
			return
		case <-m.intr:
			fmt.Fprintln(m.out)
		}
	}
}

// reapLoop retires terminated background children on child-state-change
// notifications.
func (m *SignalManager) reapLoop() {
	for {
		select {
		case <-m.done:
			return
		case <-m.chld:
			m.reap()
		}
	}
}

// reap collects every tracked background child that has already
// terminated. It waits only on tracked pids and only with WNOHANG, so it
// never blocks and never steals the executor's synchronous foreground
// waits. Reaping when nothing has terminated is a no-op.
func (m *SignalManager) reap() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for pid, name := range m.bg {
		var ws unix.WaitStatus
		got, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		if err != nil {
			// ECHILD: someone else collected it; stop tracking.
			delete(m.bg, pid)
			continue
		}
		if got != pid {
			continue // still running
		}

		delete(m.bg, pid)
		if ws.Signaled() {
			fmt.Fprintf(m.out, "[done] pid %d (%s) killed by %v\n", pid, name, ws.Signal())
		} else {
			fmt.Fprintf(m.out, "[done] pid %d (%s) status %d\n", pid, name, ws.ExitStatus())
		}
	}
}
