// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argv splits a command line into options and positional arguments.
//
// Options must come first. Scanning stops at the first argument that does not
// look like an option, or after a literal "--"; everything from there on is
// positional and is never parsed, even if it starts with "-".
//
// Option forms:
//   - --name        name with no value
//   - --name=value  name with value (possibly the empty string)
//   - -x            single-letter name with no value
//   - -xvalue       single-letter name x with value "value" (-n10)
//   - -:abc         shorthand for -a -b -c (all without values)
//
// A lone "-" is positional; it conventionally means stdin or stdout.
package argv

import (
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/runk/pkg/sysexits"
	"tailscale.com/util/set"
)

// Option is a single option as it appeared on the command line.
// A nil Value means the option was given without a value, which is different
// from an explicit empty value ("--name=").
type Option struct {
	Name  string
	Value *string
}

// Flag returns an Option with no value.
func Flag(name string) Option {
	return Option{Name: name}
}

// With returns an Option with the given value.
func With(name, value string) Option {
	return Option{Name: name, Value: &value}
}

// HasValue reports whether the option was given a value.
func (o Option) HasValue() bool {
	return o.Value != nil
}

// ValueOr returns the value, or def when there is none.
func (o Option) ValueOr(def string) string {
	if o.Value == nil {
		return def
	}
	return *o.Value
}

// String formats the option the way Format would emit it.
func (o Option) String() string {
	switch {
	case o.Value == nil:
		return "--" + o.Name
	case *o.Value != "" && utf8.RuneCountInString(o.Name) == 1:
		return "-" + o.Name + *o.Value
	default:
		return "--" + o.Name + "=" + *o.Value
	}
}

// badNameChars are rejected in option names by Pop: whitespace and characters
// that carry meaning to a shell.
var badNameChars = set.Of(
	' ', '\t', '\n', '\r', '\v', '\f',
	'`', '~', '!', '@', '#', '$', '%', '^', '&', '*', '=', '\\', '|', ';', '\'', '"', '?',
)

// groupName is the option name that expands its value into single-letter flags.
const groupName = ":"

// ValidName reports whether name is acceptable as an option name in strict
// mode.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if badNameChars.Contains(r) || r < ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// Pop removes the leading options from *args and returns them in order.
// On return *args holds only the positional arguments.
//
// Option names are validated: a name containing whitespace or shell
// punctuation is a usage error. On error *args is not modified.
func Pop(args *[]string) ([]Option, error) {
	var opts []Option
	n, err := scan(*args, func(name string, value *string) error {
		if name == "" {
			return sysexits.New(sysexits.Usage, "missing option name")
		}
		if name == groupName {
			if value == nil {
				return nil
			}
			for _, r := range *value {
				name := string(r)
				if name == groupName {
					continue
				}
				if !ValidName(name) {
					return badName()
				}
				opts = append(opts, Flag(name))
			}
			return nil
		}
		if !ValidName(name) {
			return badName()
		}
		opts = append(opts, Option{Name: name, Value: value})
		return nil
	})
	if err != nil {
		return nil, err
	}
	*args = (*args)[n:]
	return opts, nil
}

// PopLenient is Pop without name validation or ":" grouping. It never fails;
// an empty long name ("--=x") is returned as is.
func PopLenient(args *[]string) []Option {
	var opts []Option
	n, _ := scan(*args, func(name string, value *string) error {
		opts = append(opts, Option{Name: name, Value: value})
		return nil
	})
	*args = (*args)[n:]
	return opts
}

// scan walks args calling fn for every option and returns the index of the
// first positional argument.
func scan(args []string, fn func(name string, value *string) error) (int, error) {
	for i, arg := range args {
		switch {
		case arg == "--":
			return i + 1, nil
		case len(arg) < 2 || arg[0] != '-':
			return i, nil
		case arg[1] == '-':
			name, value, hasValue := strings.Cut(arg[2:], "=")
			var v *string
			if hasValue {
				v = &value
			}
			if err := fn(name, v); err != nil {
				return 0, err
			}
		default:
			_, size := utf8.DecodeRuneInString(arg[1:])
			var v *string
			if rest := arg[1+size:]; rest != "" {
				v = &rest
			}
			if err := fn(arg[1:1+size], v); err != nil {
				return 0, err
			}
		}
	}
	return len(args), nil
}

func badName() error {
	return sysexits.New(sysexits.Usage, "bad option name")
}
