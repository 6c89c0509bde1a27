// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return "auto"
}

// ParseColorMode parses "auto", "always" or "never". The empty string is auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

var isTerminalFn = term.IsTerminal

type fder interface {
	Fd() uintptr
}

// Colorizer colors diagnostic labels when enabled.
type Colorizer struct {
	Enabled bool
	red     *color.Color
}

// NewColorizer decides whether output to w is colored. In auto mode, color
// needs w to be a terminal, NO_COLOR to be unset and TERM to be set and not
// "dumb".
func NewColorizer(w io.Writer, mode ColorMode) Colorizer {
	c := Colorizer{
		red: color.New(color.FgRed, color.Bold),
	}
	switch mode {
	case ColorAlways:
		c.Enabled = true
	case ColorAuto:
		c.Enabled = autoColor(w)
	}
	if c.Enabled {
		c.red.EnableColor()
	} else {
		c.red.DisableColor()
	}
	return c
}

func autoColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	f, ok := w.(fder)
	return ok && isTerminalFn(int(f.Fd()))
}

// Error renders text in the error color.
func (c Colorizer) Error(text string) string {
	if !c.Enabled || c.red == nil {
		return text
	}
	return c.red.Sprint(text)
}
