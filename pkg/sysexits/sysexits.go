// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysexits defines the closed set of process exit codes used by runk
// and the error type that carries one of them to the top-level dispatcher.
//
// The numeric values follow FreeBSD sysexits(3) and must never be renumbered;
// shell scripts compare against them.
package sysexits

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// Code is a process exit code.
type Code int

const (
	OK          Code = 0
	Other       Code = 1
	Usage       Code = 64
	DataErr     Code = 65
	NoInput     Code = 66
	NoUser      Code = 67
	NoHost      Code = 68
	Unavailable Code = 69
	Software    Code = 70
	OSErr       Code = 71
	OSFile      Code = 72
	CantCreat   Code = 73
	IOErr       Code = 74
	TempFail    Code = 75
	Protocol    Code = 76
	NoPerm      Code = 77
	Config      Code = 78

	// SignalBase is added to a signal number to form the exit code of a
	// process terminated by that signal.
	SignalBase Code = 128
)

var names = map[string]Code{
	"other":       Other,
	"usage":       Usage,
	"dataerr":     DataErr,
	"noinput":     NoInput,
	"nouser":      NoUser,
	"nohost":      NoHost,
	"unavailable": Unavailable,
	"software":    Software,
	"oserr":       OSErr,
	"osfile":      OSFile,
	"cantcreat":   CantCreat,
	"cantcreate":  CantCreat,
	"ioerr":       IOErr,
	"tempfail":    TempFail,
	"protocol":    Protocol,
	"noperm":      NoPerm,
	"config":      Config,
}

// canonical maps codes back to names; "cantcreate" is an input alias only.
var canonical = map[Code]string{}

func init() {
	for name, code := range names {
		if name == "cantcreate" {
			continue
		}
		canonical[code] = name
	}
}

func (c Code) String() string {
	if c == OK {
		return "ok"
	}
	if name, ok := canonical[c]; ok {
		return name
	}
	if c > SignalBase {
		if name := signalName(syscall.Signal(c - SignalBase)); name != "" {
			return strings.ToLower(name)
		}
	}
	return strconv.Itoa(int(c))
}

// Lookup returns the code registered under name. Names are the lower-case
// sysexits(3) names without the EX_ prefix ("usage", "noinput", ...) and the
// lower-case signal names ("sigint", "sigterm", ...), which map to 128+S.
func Lookup(name string) (Code, bool) {
	name = strings.ToLower(name)
	if c, ok := names[name]; ok {
		return c, true
	}
	if strings.HasPrefix(name, "sig") {
		if sig, ok := signalNum(strings.ToUpper(name)); ok {
			return Signal(sig), true
		}
	}
	return 0, false
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) Code {
	c, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("sysexits: unknown exit code name %q", name))
	}
	return c
}

// Signal returns the exit code of a process terminated by sig.
func Signal(sig syscall.Signal) Code {
	return SignalBase + Code(sig)
}

// Names returns every registered name, including signal names, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	for _, name := range signalNames() {
		out = append(out, strings.ToLower(name))
	}
	sort.Strings(out)
	return out
}

// Error is an error that carries an exit code. An empty Message means the error
// only selects the code and nothing is printed for it.
type Error struct {
	Code    Code
	Message string
	Err     error // optional underlying cause
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", int(e.Code))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Silent reports whether the error carries neither a message nor a cause to
// print.
func (e *Error) Silent() bool {
	return e.Message == "" && e.Err == nil
}

// New returns an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code to err, keeping err's text as the message.
func Wrap(code Code, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// Exit returns an Error that selects code without a message.
func Exit(code int) *Error {
	return &Error{Code: Code(code)}
}

// CodeOf returns the exit code carried by err: 0 for nil, the Error's code when
// err wraps an *Error, and Other otherwise.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Other
}

func Internal(message string) *Error {
	if message == "" {
		message = "internal error"
	}
	return New(Software, message)
}

func UnknownOption(name string) *Error {
	return New(Usage, "unknown option "+name)
}

func MissingValue(name string) *Error {
	return New(Usage, "missing value for option "+name)
}

func UnexpectedValue(name string) *Error {
	return New(Usage, "unexpected value for option "+name)
}

func UnknownArgs() *Error {
	return New(Usage, "unknown arguments")
}

func MissingArg(name string) *Error {
	return New(Usage, "missing expected argument "+name)
}

func MissingArgs(names ...string) *Error {
	return New(Usage, "missing expected arguments "+strings.Join(names, " "))
}

func UnknownExtraArgs(count int) *Error {
	s := "s"
	if count == 1 {
		s = ""
	}
	return Newf(Usage, "%d unknown extra argument%s", count, s)
}
