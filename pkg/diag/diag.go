// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag prints user-facing diagnostics in the form
//
//	prog error: message parts
//	prog: message parts
//
// on one line. Diagnostics are not log lines; see package logutil for those.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrEmptyMessage is returned when a diagnostic has no parts.
var ErrEmptyMessage = errors.New("diag: empty message")

// Printer writes diagnostics for one program to one stream.
type Printer struct {
	prog  string
	w     io.Writer
	color Colorizer

	mu sync.Mutex
}

// NewPrinter returns a Printer writing to w. Colors are used according to mode
// and whether w is a terminal.
func NewPrinter(prog string, w io.Writer, mode ColorMode) *Printer {
	return &Printer{
		prog:  prog,
		w:     w,
		color: NewColorizer(w, mode),
	}
}

// Prog returns the program name used as the diagnostic prefix.
func (p *Printer) Prog() string {
	return p.prog
}

// SetProg changes the program name.
func (p *Printer) SetProg(prog string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
}

// Error prints "prog error: parts...".
func (p *Printer) Error(parts ...any) error {
	return p.print(true, parts)
}

// Warning prints "prog: parts...".
func (p *Printer) Warning(parts ...any) error {
	return p.print(false, parts)
}

// Errorf is Error with a single formatted part.
func (p *Printer) Errorf(format string, args ...any) error {
	return p.print(true, []any{fmt.Sprintf(format, args...)})
}

func (p *Printer) print(isErr bool, parts []any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	body, err := join(parts)
	if err != nil {
		return err
	}
	prefix := p.prog + ":"
	if isErr {
		prefix = p.prog + " " + p.color.Error("error:")
	}
	_, err = io.WriteString(p.w, prefix+" "+body+"\n")
	return err
}

// Line returns the uncolored diagnostic line for parts without the trailing
// newline. isErr selects the "error:" form.
func Line(prog string, isErr bool, parts ...any) (string, error) {
	body, err := join(parts)
	if err != nil {
		return "", err
	}
	if isErr {
		return prog + " error: " + body, nil
	}
	return prog + ": " + body, nil
}

// join renders parts space-separated with newlines flattened to spaces.
func join(parts []any) (string, error) {
	if len(parts) == 0 {
		return "", ErrEmptyMessage
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.ReplaceAll(fmt.Sprint(part), "\n", " ")
	}
	return strings.Join(out, " "), nil
}
