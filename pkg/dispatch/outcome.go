// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/yeetrun/runk/pkg/sysexits"
)

// Kind tags an Outcome.
type Kind int

const (
	// Normal is a handler return: nil, an exit code or a Message.
	Normal Kind = iota
	// UsageFault is a command-line usage error.
	UsageFault
	// SignalTerminated means the handler was stopped by a signal.
	SignalTerminated
	// Faulted is any other error or a panic.
	Faulted
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case UsageFault:
		return "usage"
	case SignalTerminated:
		return "signal"
	case Faulted:
		return "fault"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the classified result of one handler invocation.
type Outcome struct {
	Kind    Kind
	Code    sysexits.Code
	Message string // diagnostic text without the program prefix; may be empty

	Signal    syscall.Signal // SignalTerminated only
	Interrupt bool           // SignalTerminated by SIGINT or SIGPIPE

	Stack []byte // panic stack, or goroutine dump at signal delivery
	Err   error  // the classified error, if any
}

// Message is a handler result that reports a failure with a diagnostic and no
// particular exit code. It exits 1.
type Message string

func (m Message) Error() string { return string(m) }

// SignalError reports that a handler was stopped by a signal.
type SignalError struct {
	Signal    syscall.Signal
	Interrupt bool
}

func (e *SignalError) Error() string {
	return "terminated by " + sysexits.Signal(e.Signal).String()
}

// isInterrupt reports whether sig is one of the interruption signals whose
// trace is shown only in verbose mode.
func isInterrupt(sig syscall.Signal) bool {
	return sig == syscall.SIGINT || sig == syscall.SIGPIPE
}

// Classify turns a handler result into an Outcome. err is the returned error;
// panicked is the recovered panic value, if any, with its stack.
func Classify(err error, panicked any, stack []byte) Outcome {
	if panicked != nil {
		return Outcome{
			Kind:    Faulted,
			Code:    sysexits.Software,
			Message: fmt.Sprintf("panic: %v", panicked),
			Stack:   stack,
		}
	}
	if err == nil {
		return Outcome{Kind: Normal, Code: sysexits.OK}
	}

	var msg Message
	if errors.As(err, &msg) {
		if msg == "" {
			return Outcome{Kind: Normal, Code: sysexits.OK, Err: err}
		}
		return Outcome{Kind: Normal, Code: sysexits.Other, Message: string(msg), Err: err}
	}

	var sigErr *SignalError
	if errors.As(err, &sigErr) {
		return signalOutcome(sigErr.Signal, sigErr.Interrupt || isInterrupt(sigErr.Signal), nil, err)
	}

	var exitErr *sysexits.Error
	if errors.As(err, &exitErr) {
		switch {
		case exitErr.Silent():
			return Outcome{Kind: Normal, Code: exitErr.Code, Err: err}
		case exitErr.Code == sysexits.Usage:
			return Outcome{Kind: UsageFault, Code: sysexits.Usage, Message: exitErr.Error(), Err: err}
		}
		return Outcome{Kind: Faulted, Code: exitErr.Code, Message: exitErr.Error(), Err: err}
	}

	// Writes to a closed pipe are the synchronous form of SIGPIPE.
	if errors.Is(err, syscall.EPIPE) {
		return signalOutcome(syscall.SIGPIPE, true, nil, err)
	}

	var (
		pathErr *fs.PathError
		linkErr *os.LinkError
		sysErr  *os.SyscallError
		errno   syscall.Errno
	)
	switch {
	case errors.As(err, &pathErr), errors.As(err, &linkErr):
		return Outcome{Kind: Faulted, Code: sysexits.IOErr, Message: err.Error(), Err: err}
	case errors.As(err, &sysErr), errors.As(err, &errno):
		return Outcome{Kind: Faulted, Code: sysexits.OSErr, Message: err.Error(), Err: err}
	}
	return Outcome{Kind: Faulted, Code: sysexits.Software, Message: err.Error(), Err: err}
}

func signalOutcome(sig syscall.Signal, interrupt bool, stack []byte, err error) Outcome {
	return Outcome{
		Kind:      SignalTerminated,
		Code:      sysexits.Signal(sig),
		Signal:    sig,
		Interrupt: interrupt,
		Stack:     stack,
		Err:       err,
	}
}

// Resolve returns the exit code for o and the diagnostic to print, which is
// empty when nothing should be printed. Signal terminations never print a
// diagnostic line; see Trace for their verbose output.
func Resolve(o Outcome) (code int, diagnostic string) {
	switch o.Kind {
	case SignalTerminated:
		return int(o.Code), ""
	case Faulted:
		if o.Message == "" {
			return int(o.Code), "internal error"
		}
	}
	return int(o.Code), o.Message
}

// Trace returns the stack text to print after the diagnostic, if any. Faults
// always show their stack; interruptions show it only when verbose is set;
// other signal terminations never do.
func (o Outcome) Trace(verbose bool) []byte {
	switch o.Kind {
	case Faulted:
		return o.Stack
	case SignalTerminated:
		if verbose && o.Interrupt {
			if len(o.Stack) == 0 && o.Err != nil {
				return []byte(o.Err.Error() + "\n")
			}
			return o.Stack
		}
	}
	return nil
}
