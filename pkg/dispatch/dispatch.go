// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch runs a handler with a raw argument list and turns whatever
// happens to it into one process exit code.
//
// A handler may return nil (exit 0), sysexits.Exit(n) (exit n, silent), a
// Message (exit 1 with a diagnostic), a *sysexits.Error (its code with a
// diagnostic) or any other error (exit 70 with a diagnostic). Panics exit 70
// and print their stack. Signals in the dispatcher's SignalTable stop waiting
// for the handler and exit 128+S.
package dispatch

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/diag"
	"github.com/yeetrun/runk/pkg/logutil"
	"github.com/yeetrun/runk/pkg/sysexits"
)

// Handler is the application side of a dispatch. opts are the raw options in
// command-line order, for the handler to coerce with its own optics.Spec.
type Handler interface {
	Run(ctx context.Context, opts []argv.Option, args []string) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, opts []argv.Option, args []string) error

func (f HandlerFunc) Run(ctx context.Context, opts []argv.Option, args []string) error {
	return f(ctx, opts, args)
}

// Invocation describes the current dispatch to a handler.
type Invocation struct {
	ID      uuid.UUID
	Prog    string
	Streams Streams
	Diag    *diag.Printer
	Log     *logutil.Logger
}

type invocationKey struct{}

// FromContext returns the Invocation of the running handler. Outside a
// dispatch it returns an Invocation on the process streams.
func FromContext(ctx context.Context) *Invocation {
	if inv, ok := ctx.Value(invocationKey{}).(*Invocation); ok {
		return inv
	}
	prog := "runk"
	if len(os.Args) > 0 {
		prog = os.Args[0]
	}
	return &Invocation{
		Prog:    prog,
		Streams: Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
		Diag:    diag.NewPrinter(prog, os.Stderr, diag.ColorAuto),
		Log:     logutil.Discard(),
	}
}

// WithInvocation returns a context carrying inv.
func WithInvocation(ctx context.Context, inv *Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// Dispatcher runs handlers. The zero value is not usable; fill in at least
// Name and Streams.
type Dispatcher struct {
	// Name is the program name used in diagnostics.
	Name string
	// Verbose shows the stack of the abandoned handler when it is
	// interrupted by SIGINT or SIGPIPE.
	Verbose bool

	Streams Streams
	Signals *SignalTable
	Color   diag.ColorMode
	Log     *logutil.Logger
}

type result struct {
	err      error
	panicked any
	stack    []byte
}

// Run tokenizes args, calls h and returns the exit code. The streams are
// flushed and closed before Run returns.
func (d *Dispatcher) Run(ctx context.Context, h Handler, args []string) int {
	stderr := d.Streams.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	inv := &Invocation{
		ID:      uuid.New(),
		Prog:    d.Name,
		Streams: d.Streams,
		Diag:    diag.NewPrinter(d.Name, stderr, d.Color),
		Log:     d.Log,
	}
	out := d.invoke(WithInvocation(ctx, inv), h, args)
	code, msg := Resolve(out)
	d.Log.Debugf("invocation %s: %s exit %d", inv.ID, out.Kind, code)

	if msg != "" {
		inv.Diag.Error(msg)
	}
	if trace := out.Trace(d.Verbose); len(trace) > 0 {
		stderr.Write(trace)
	}

	if err := d.Streams.Close(); err != nil && code == 0 {
		code, _ = Resolve(Classify(err, nil, nil))
		d.Log.Errorf("invocation %s: closing streams: %v", inv.ID, err)
	}
	return code
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, args []string) Outcome {
	inv := FromContext(ctx)
	d.Log.Debugf("invocation %s: %s %q", inv.ID, d.Name, args)

	args = append([]string(nil), args...)
	opts, err := argv.Pop(&args)
	if err != nil {
		return Classify(err, nil, nil)
	}
	d.Log.Debugf("invocation %s: %d options, %d arguments", inv.ID, len(opts), len(args))

	signals := d.Signals
	if signals == nil {
		signals = &SignalTable{}
	}
	ctx, stop := signals.Install(ctx)
	defer stop()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{panicked: p, stack: debug.Stack()}
			}
		}()
		done <- result{err: h.Run(ctx, opts, args)}
	}()

	select {
	case r := <-done:
		return classifyResult(ctx, r)
	case <-ctx.Done():
		var sigErr *SignalError
		if errors.As(context.Cause(ctx), &sigErr) {
			// The handler goroutine is abandoned; the process exits soon.
			return signalOutcome(sigErr.Signal, sigErr.Interrupt, goroutineDump(), sigErr)
		}
		return classifyResult(ctx, <-done)
	}
}

// classifyResult attributes a handler's context error to the signal that
// cancelled it.
func classifyResult(ctx context.Context, r result) Outcome {
	if r.err != nil && errors.Is(r.err, context.Canceled) {
		var sigErr *SignalError
		if errors.As(context.Cause(ctx), &sigErr) {
			return signalOutcome(sigErr.Signal, sigErr.Interrupt, nil, r.err)
		}
	}
	return Classify(r.err, r.panicked, r.stack)
}

func goroutineDump() []byte {
	buf := make([]byte, 64<<10)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 8<<20 {
			return buf[:n]
		}
		buf = make([]byte, 2*len(buf))
	}
}

// Exit is a convenience for handlers: it returns sysexits.Exit(code), or nil
// for zero.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return sysexits.Exit(code)
}
