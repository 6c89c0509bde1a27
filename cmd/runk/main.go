// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command runk runs a registered target with its command-line arguments and
// translates the outcome into an exit code.
//
//	runk [LAUNCHER-OPTIONS] TARGET [ARGS...]
package main

import (
	"context"
	"os"

	"github.com/yeetrun/runk/pkg/dispatch"
	"github.com/yeetrun/runk/pkg/examples"
	"github.com/yeetrun/runk/pkg/registry"
)

func newRegistry() *registry.Registry {
	r := registry.New()
	if err := examples.Register(r); err != nil {
		panic(err)
	}
	return r
}

func main() {
	l := &launcher{
		reg:     newRegistry(),
		env:     os.LookupEnv,
		streams: dispatch.StdStreams(),
		signals: dispatch.DefaultSignals(),
	}
	os.Exit(l.run(context.Background(), os.Args[1:]))
}
