// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
)

// SignalAction says how a handled signal terminates the handler.
type SignalAction int

const (
	// Interrupt signals are user or pipeline aborts; their trace is shown
	// only in verbose mode.
	Interrupt SignalAction = iota
	// Terminate signals ask the process to stop and are always silent.
	Terminate
)

// SignalTable is the set of signals the dispatcher turns into a
// SignalTerminated outcome. It is owned by one Dispatcher.
type SignalTable struct {
	mu      sync.Mutex
	actions map[syscall.Signal]SignalAction
}

// DefaultSignals returns the table used by the launcher: SIGINT and SIGPIPE
// interrupt, SIGHUP and SIGTERM terminate.
func DefaultSignals() *SignalTable {
	t := &SignalTable{}
	t.Set(syscall.SIGINT, Interrupt)
	t.Set(syscall.SIGPIPE, Interrupt)
	t.Set(syscall.SIGHUP, Terminate)
	t.Set(syscall.SIGTERM, Terminate)
	return t
}

// Set registers sig with action a.
func (t *SignalTable) Set(sig syscall.Signal, a SignalAction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.actions == nil {
		t.actions = make(map[syscall.Signal]SignalAction)
	}
	t.actions[sig] = a
}

// Delete unregisters sig.
func (t *SignalTable) Delete(sig syscall.Signal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.actions, sig)
}

// Signals returns the registered signals in numeric order.
func (t *SignalTable) Signals() []syscall.Signal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]syscall.Signal, 0, len(t.actions))
	for sig := range t.actions {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the action for sig.
func (t *SignalTable) Lookup(sig syscall.Signal) (SignalAction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.actions[sig]
	return a, ok
}

// Install starts delivering the table's signals. The returned context is
// cancelled with a *SignalError cause on the first delivered signal. stop
// unregisters the signals and must be called once the handler is done.
func (t *SignalTable) Install(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancelCause(parent)
	sigs := t.Signals()
	if len(sigs) == 0 {
		return ctx, func() { cancel(nil) }
	}

	ch := make(chan os.Signal, 1)
	notify := make([]os.Signal, len(sigs))
	for i, s := range sigs {
		notify[i] = s
	}
	signal.Notify(ch, notify...)

	done := make(chan struct{})
	go func() {
		select {
		case s := <-ch:
			sig, _ := s.(syscall.Signal)
			a, _ := t.Lookup(sig)
			cancel(&SignalError{Signal: sig, Interrupt: a == Interrupt})
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
			cancel(nil)
		})
	}
}
