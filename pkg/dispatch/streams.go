// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

type flusher interface {
	Flush() error
}

// Streams are the standard streams of one invocation.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process streams. Stdout is buffered and must be
// flushed by Close.
func StdStreams() Streams {
	return Streams{
		Stdin:  os.Stdin,
		Stdout: Buffered(os.Stdout),
		Stderr: os.Stderr,
	}
}

// BufferedWriter is a buffered writer that also closes what it wraps. It is
// safe for concurrent use: a handler abandoned after a signal may still be
// writing while the dispatcher flushes and closes. Writes after Close fail
// with os.ErrClosed and never reach the wrapped writer.
type BufferedWriter struct {
	mu     sync.Mutex
	w      *bufio.Writer
	c      io.Closer
	closed bool
}

// Buffered wraps w in a BufferedWriter.
func Buffered(w io.WriteCloser) *BufferedWriter {
	return &BufferedWriter{w: bufio.NewWriter(w), c: w}
}

func (b *BufferedWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, os.ErrClosed
	}
	return b.w.Write(p)
}

func (b *BufferedWriter) WriteString(s string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, os.ErrClosed
	}
	return b.w.WriteString(s)
}

// Flush writes any buffered data to the wrapped writer. It is a no-op once
// the writer is closed.
func (b *BufferedWriter) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.w.Flush()
}

// Close flushes and closes the wrapped writer. Only the first call has any
// effect.
func (b *BufferedWriter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return errors.Join(b.w.Flush(), b.c.Close())
}

// Close flushes then closes stdout, then flushes then closes stderr. Every
// step is attempted even if an earlier one fails; the errors are joined.
// Streams that cannot be flushed or closed are skipped.
func (s Streams) Close() error {
	var errs []error
	for _, st := range []struct {
		name string
		w    io.Writer
	}{
		{"stdout", s.Stdout},
		{"stderr", s.Stderr},
	} {
		if err := closeStream(st.w); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
		}
	}
	return errors.Join(errs...)
}

func closeStream(w io.Writer) (err error) {
	if w == nil {
		return nil
	}
	if f, ok := w.(flusher); ok {
		err = f.Flush()
	}
	if c, ok := w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}
