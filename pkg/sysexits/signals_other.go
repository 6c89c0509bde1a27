// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package sysexits

import "syscall"

var fallbackSignals = map[string]syscall.Signal{
	"SIGHUP":  syscall.SIGHUP,
	"SIGINT":  syscall.SIGINT,
	"SIGKILL": syscall.SIGKILL,
	"SIGPIPE": syscall.SIGPIPE,
	"SIGTERM": syscall.SIGTERM,
}

func signalName(sig syscall.Signal) string {
	for name, s := range fallbackSignals {
		if s == sig {
			return name
		}
	}
	return ""
}

func signalNum(name string) (syscall.Signal, bool) {
	sig, ok := fallbackSignals[name]
	return sig, ok
}

func signalNames() []string {
	out := make([]string, 0, len(fallbackSignals))
	for name := range fallbackSignals {
		out = append(out, name)
	}
	return out
}
