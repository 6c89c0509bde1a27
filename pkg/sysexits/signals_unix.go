// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package sysexits

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// maxSignal bounds the scan of the platform signal table; realtime signals
// on linux end at 64.
const maxSignal = 65

func signalName(sig syscall.Signal) string {
	return unix.SignalName(sig)
}

func signalNum(name string) (syscall.Signal, bool) {
	sig := unix.SignalNum(name)
	return sig, sig != 0
}

func signalNames() []string {
	var out []string
	for i := 1; i < maxSignal; i++ {
		if name := unix.SignalName(syscall.Signal(i)); name != "" {
			out = append(out, name)
		}
	}
	return out
}
