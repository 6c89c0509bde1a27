// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optics coerces options produced by package argv into typed values.
//
// A command describes its options with a Spec, a map from option name to Rule:
//
//	spec := optics.Spec{
//	    "n":     optics.Alias("lines"),
//	    "lines": optics.NonnegInt,
//	    "tag":   optics.RawList,
//	    "v":     optics.StoreTrue,
//	}
//	opts, err := optics.Apply(raw, spec, nil)
//
// Options are applied left to right. Every rule sees the option name as
// written, its value (nil when absent) and the value previously stored under
// its own key, and nothing else. Rules that accumulate (RawList, ListOf) build
// on the previous value; all others replace it.
package optics

import (
	"fmt"
	"maps"
	"sort"

	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/sysexits"
	"tailscale.com/util/mak"
)

// Rule is one entry of a Spec. It is implemented by Func, Alias and Bind only.
type Rule interface {
	rule()
}

// Func converts one option occurrence into a typed value. name is the option
// as written on the command line, value is nil when the option had no value,
// and prev is the value already stored under the rule's key (nil if unset).
type Func func(name string, value *string, prev any) (any, error)

// Alias makes an option another spelling of the named option: it stores under
// the target's key using the target's Func.
type Alias string

// Bind stores under Target but converts with its own Func. It lets several
// option names share one key with different parsing, such as "-5" feeding a
// "lines" key.
type Bind struct {
	Target string
	Func   Func
}

func (Func) rule()  {}
func (Alias) rule() {}
func (Bind) rule()  {}

// Spec maps option names to rules.
type Spec map[string]Rule

// Check reports construction errors in s: nil rules, aliases to
// unknown names and aliases to anything but a Func. Commands call it once at
// startup.
func (s Spec) Check() error {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, _, err := s.resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the option names in s, sorted.
func (s Spec) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// resolve returns the key to store under and the Func to call for name.
func (s Spec) resolve(name string) (string, Func, error) {
	switch r := s[name].(type) {
	case nil:
		if _, ok := s[name]; ok {
			return "", nil, sysexits.Internal(fmt.Sprintf("option %s has a nil rule", name))
		}
		return "", nil, sysexits.UnknownOption(name)
	case Func:
		if r == nil {
			return "", nil, sysexits.Internal(fmt.Sprintf("option %s has a nil rule", name))
		}
		return name, r, nil
	case Alias:
		target := string(r)
		f, ok := s[target].(Func)
		if !ok || f == nil {
			return "", nil, sysexits.Internal(fmt.Sprintf("option %s aliases %s, which is not a function rule", name, target))
		}
		return target, f, nil
	case Bind:
		if r.Func == nil || r.Target == "" {
			return "", nil, sysexits.Internal(fmt.Sprintf("option %s has an incomplete binding", name))
		}
		return r.Target, r.Func, nil
	}
	return "", nil, sysexits.Internal(fmt.Sprintf("option %s has an unsupported rule", name))
}

// Apply converts raw into typed options according to spec, starting from a
// copy of seed, which may be nil. It stops at the first unknown or invalid
// option. seed is never modified.
func Apply(raw []argv.Option, spec Spec, seed Options) (Options, error) {
	out := maps.Clone(seed)
	for _, o := range raw {
		key, f, err := spec.resolve(o.Name)
		if err != nil {
			return nil, err
		}
		v, err := f(o.Name, o.Value, out[key])
		if err != nil {
			return nil, err
		}
		mak.Set(&out, key, v)
	}
	if out == nil {
		out = Options{}
	}
	return out, nil
}
