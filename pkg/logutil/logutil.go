// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logutil provides the levelled debug log used by runk. It writes
// standard log lines to stderr or to a size-rotated file.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"tailscale.com/types/logger"
)

type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelInfo
	LevelDebug
)

var levelNames = []string{"none", "error", "info", "debug"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel parses a level name. The empty string is LevelNone.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelNone, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown log level %q (want one of %s)", s, strings.Join(levelNames, ", "))
}

// Rotation limits for log files.
const (
	maxSizeMB  = 16
	maxBackups = 3
	maxAgeDays = 28
)

// Logger is a levelled wrapper around *log.Logger. The zero value and a nil
// *Logger discard everything.
type Logger struct {
	l      *log.Logger
	level  Level
	closer io.Closer
}

// New returns a Logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		l:     log.New(w, "runk: ", log.LstdFlags|log.Lmicroseconds),
		level: level,
	}
}

// Open returns a Logger for the given destination. An empty path logs to
// stderr; anything else is a file rotated by size. Close releases the file.
func Open(path string, level Level) *Logger {
	if path == "" {
		return New(os.Stderr, level)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	l := New(lj, level)
	l.closer = lj
	return l
}

// Discard returns a Logger that logs nothing.
func Discard() *Logger {
	return &Logger{}
}

func (l *Logger) Level() Level {
	if l == nil {
		return LevelNone
	}
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.l != nil && level != LevelNone && level <= l.level
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.l.Printf(level.String()+": "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// Logf returns a logger.Logf that logs at level, for APIs that take a plain
// printf-style function.
func (l *Logger) Logf(level Level) logger.Logf {
	return func(format string, args ...any) {
		l.logf(level, format, args...)
	}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
