// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package examples holds small handlers that demonstrate the dispatch
// contract. They are registered under the "examples" prefix.
package examples

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/dispatch"
	"github.com/yeetrun/runk/pkg/registry"
)

// Register adds the example targets to r.
func Register(r *registry.Registry) error {
	targets := map[string]registry.Entry{
		"examples.main": {
			Handler: dispatch.HandlerFunc(Show),
			Info:    registry.Info{Description: "Example handlers (runs show)", Hidden: true},
		},
		"examples.show": {
			Handler: dispatch.HandlerFunc(Show),
			Info: registry.Info{
				Description: "Print the program name, options and arguments",
				Usage:       "[OPTIONS] [ARGS...]",
				Examples:    []string{"runk examples.show -n5 --name=x a b"},
			},
		},
		"examples.showargs": {
			Handler: dispatch.HandlerFunc(ShowArgs),
			Info: registry.Info{
				Description: "Print one line per option and per argument",
				Usage:       "[OPTIONS] [ARGS...]",
			},
		},
		"examples.reconstruct": {
			Handler: dispatch.HandlerFunc(Reconstruct),
			Info: registry.Info{
				Description: "Print the command line rebuilt and shell-quoted",
				Usage:       "[OPTIONS] [ARGS...]",
			},
		},
		"examples.head": {
			Handler: dispatch.HandlerFunc(Head),
			Info: registry.Info{
				Description: "Print the first lines of files (.gz and .zst are decompressed)",
				Usage:       "[-N | -nN | --lines=N] [FILE...]",
				Examples:    []string{"runk examples.head -3 log.txt", "runk examples.head --lines=20 a.zst b.gz"},
				Aliases:     []string{"head"},
			},
		},
	}
	for _, name := range []string{"examples.main", "examples.show", "examples.showargs", "examples.reconstruct", "examples.head"} {
		if err := r.Register(name, targets[name]); err != nil {
			return err
		}
	}
	return nil
}

// Show prints the program name, the options and the positional arguments.
func Show(ctx context.Context, opts []argv.Option, args []string) error {
	inv := dispatch.FromContext(ctx)
	w := inv.Streams.Stdout
	var b strings.Builder
	for i, o := range opts {
		if i > 0 {
			b.WriteString(" ")
		}
		if o.Value == nil {
			fmt.Fprintf(&b, "(%s)", o.Name)
		} else {
			fmt.Fprintf(&b, "(%s %s)", o.Name, strconv.Quote(*o.Value))
		}
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	_, err := fmt.Fprintf(w, "prog: %s\nopts: [%s]\nargs: [%s]\n", inv.Prog, b.String(), strings.Join(quoted, " "))
	return err
}

// ShowArgs prints "option NAME[: VALUE]" per option, then each argument
// numbered from 1.
func ShowArgs(ctx context.Context, opts []argv.Option, args []string) error {
	w := dispatch.FromContext(ctx).Streams.Stdout
	for _, o := range opts {
		s := "option " + o.Name
		if o.Value != nil {
			s += ": " + *o.Value
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	for i, a := range args {
		if _, err := fmt.Fprintf(w, "%3d %s\n", i+1, a); err != nil {
			return err
		}
	}
	return nil
}

// Reconstruct prints a shell command line equivalent to the invocation.
func Reconstruct(ctx context.Context, opts []argv.Option, args []string) error {
	inv := dispatch.FromContext(ctx)
	line := append([]string{inv.Prog}, argv.Format(opts, args)...)
	_, err := fmt.Fprintln(inv.Streams.Stdout, argv.Join(line))
	return err
}
