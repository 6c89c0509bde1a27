// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry maps dotted target names ("examples.head") to handlers.
// It is the compiled-in replacement for looking handlers up by name at run
// time.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shayne/yargs"
	"github.com/yeetrun/runk/pkg/dispatch"
	"github.com/yeetrun/runk/pkg/sysexits"
)

// mainName is the entry looked up when a target names a package prefix.
const mainName = "main"

// Info is the help metadata of a target.
type Info struct {
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

// Entry is one registered target.
type Entry struct {
	Handler dispatch.Handler
	Info    Info
}

type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	aliases map[string]string // alias -> name
}

func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		aliases: make(map[string]string),
	}
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, " \t\n/")
}

// Register adds a target. Names and aliases must be unique.
func (r *Registry) Register(name string, e Entry) error {
	if !validName(name) {
		return fmt.Errorf("registry: invalid target name %q", name)
	}
	if e.Handler == nil {
		return fmt.Errorf("registry: target %q has no handler", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return fmt.Errorf("registry: target %q already registered", name)
	}
	for _, a := range e.Info.Aliases {
		if !validName(a) || r.taken(a) || a == name {
			return fmt.Errorf("registry: alias %q of %q is invalid or taken", a, name)
		}
	}
	r.entries[name] = e
	for _, a := range e.Info.Aliases {
		r.aliases[a] = name
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, e := r.entries[name]
	_, a := r.aliases[name]
	return e || a
}

// MustRegister is Register that panics on error, for init-time tables.
func (r *Registry) MustRegister(name string, e Entry) {
	if err := r.Register(name, e); err != nil {
		panic(err)
	}
}

// Lookup returns the handler for path. path may be a registered name, an
// alias, or a prefix whose ".main" entry is registered. Anything else is a
// usage fault.
func (r *Registry) Lookup(path string) (dispatch.Handler, error) {
	_, e, err := r.Resolve(path, nil)
	if err != nil {
		return nil, err
	}
	return e.Handler, nil
}

// Resolve is Lookup that first maps path through extra, a table of
// user-defined aliases, and also returns the canonical name.
func (r *Registry) Resolve(path string, extra map[string]string) (string, Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name := path
	if target, ok := extra[name]; ok && target != "" {
		name = target
	}
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	if e, ok := r.entries[name]; ok {
		return name, e, nil
	}
	if e, ok := r.entries[name+"."+mainName]; ok {
		return name + "." + mainName, e, nil
	}
	return "", Entry{}, sysexits.New(sysexits.Usage, "unknown target "+path)
}

// Names returns the registered names, sorted. Hidden targets are included
// only if hidden is true.
func (r *Registry) Names(hidden bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if e.Info.Hidden && !hidden {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Info returns the metadata of a registered name.
func (r *Registry) Info(name string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.Info, ok
}

// HelpConfig describes the registry for help generation. Undotted names are
// commands; "group.name" targets are listed under their group.
func (r *Registry) HelpConfig(cmd yargs.CommandInfo) yargs.HelpConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subcommands := make(map[string]yargs.SubCommandInfo)
	groups := make(map[string]yargs.GroupInfo)
	for name, e := range r.entries {
		group, sub, dotted := strings.Cut(name, ".")
		if !dotted {
			subcommands[name] = toSubCommandInfo(name, e.Info)
			continue
		}
		g, ok := groups[group]
		if !ok {
			g = yargs.GroupInfo{
				Name:        group,
				Description: group + " targets",
				Commands:    make(map[string]yargs.SubCommandInfo),
			}
		}
		if sub == mainName && e.Info.Description != "" {
			g.Description = e.Info.Description
		}
		g.Commands[sub] = toSubCommandInfo(sub, e.Info)
		groups[group] = g
	}
	for name, g := range groups {
		hidden := true
		for _, c := range g.Commands {
			hidden = hidden && c.Hidden
		}
		g.Hidden = hidden
		groups[name] = g
	}
	return yargs.HelpConfig{
		Command:     cmd,
		SubCommands: subcommands,
		Groups:      groups,
	}
}

func toSubCommandInfo(name string, info Info) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}
