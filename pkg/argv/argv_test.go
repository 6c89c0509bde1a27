// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/yeetrun/runk/pkg/sysexits"
)

func TestPop(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOpts []Option
		wantArgs []string
	}{
		{
			name:     "empty",
			args:     []string{},
			wantArgs: []string{},
		},
		{
			name:     "bare short flag",
			args:     []string{"-x"},
			wantOpts: []Option{Flag("x")},
			wantArgs: []string{},
		},
		{
			name:     "short flag does not consume next arg",
			args:     []string{"-n", "10"},
			wantOpts: []Option{Flag("n")},
			wantArgs: []string{"10"},
		},
		{
			name:     "bundled short value",
			args:     []string{"-n10", "file"},
			wantOpts: []Option{With("n", "10")},
			wantArgs: []string{"file"},
		},
		{
			name:     "short value is not split",
			args:     []string{"-n=10"},
			wantOpts: []Option{With("n", "=10")},
			wantArgs: []string{},
		},
		{
			name:     "long without value",
			args:     []string{"--verbose"},
			wantOpts: []Option{Flag("verbose")},
			wantArgs: []string{},
		},
		{
			name:     "long with value",
			args:     []string{"--lines=5", "a"},
			wantOpts: []Option{With("lines", "5")},
			wantArgs: []string{"a"},
		},
		{
			name:     "long splits at first equals",
			args:     []string{"--define=a=b"},
			wantOpts: []Option{With("define", "a=b")},
			wantArgs: []string{},
		},
		{
			name:     "explicit empty value",
			args:     []string{"--name=", "rest"},
			wantOpts: []Option{With("name", "")},
			wantArgs: []string{"rest"},
		},
		{
			name:     "double dash disables parsing",
			args:     []string{"--", "-x"},
			wantArgs: []string{"-x"},
		},
		{
			name:     "double dash after options",
			args:     []string{"-a", "--b=c", "--", "--d", "-", "--"},
			wantOpts: []Option{Flag("a"), With("b", "c")},
			wantArgs: []string{"--d", "-", "--"},
		},
		{
			name:     "single dash is positional",
			args:     []string{"-v", "-", "-w"},
			wantOpts: []Option{Flag("v")},
			wantArgs: []string{"-", "-w"},
		},
		{
			name:     "first positional stops scanning",
			args:     []string{"-v", "file", "--lines=3"},
			wantOpts: []Option{Flag("v")},
			wantArgs: []string{"file", "--lines=3"},
		},
		{
			name:     "empty string is positional",
			args:     []string{"", "-v"},
			wantArgs: []string{"", "-v"},
		},
		{
			name:     "group expands to flags",
			args:     []string{"-:abc", "x"},
			wantOpts: []Option{Flag("a"), Flag("b"), Flag("c")},
			wantArgs: []string{"x"},
		},
		{
			name:     "group skips colons",
			args:     []string{"--:=a:b"},
			wantOpts: []Option{Flag("a"), Flag("b")},
			wantArgs: []string{},
		},
		{
			name:     "empty group",
			args:     []string{"-:", "x"},
			wantArgs: []string{"x"},
		},
		{
			name:     "multibyte short name",
			args:     []string{"-éx"},
			wantOpts: []Option{With("é", "x")},
			wantArgs: []string{},
		},
		{
			name:     "repeated options keep order",
			args:     []string{"--tag=a", "-t", "--tag=b"},
			wantOpts: []Option{With("tag", "a"), Flag("t"), With("tag", "b")},
			wantArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string(nil), tt.args...)
			opts, err := Pop(&args)
			if err != nil {
				t.Fatalf("Pop() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantOpts, opts, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, args, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("positionals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopAbsentAndEmptyDiffer(t *testing.T) {
	args := []string{"--a", "--b="}
	opts, err := Pop(&args)
	if err != nil {
		t.Fatal(err)
	}
	if opts[0].HasValue() {
		t.Errorf("--a should have no value")
	}
	if !opts[1].HasValue() || *opts[1].Value != "" {
		t.Errorf("--b= should have the empty value, got %+v", opts[1])
	}
	if got := opts[0].ValueOr("dflt"); got != "dflt" {
		t.Errorf("ValueOr = %q, want dflt", got)
	}
}

func TestPopRejectsBadNames(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"space in long name", []string{"--bad name"}, "bad option name"},
		{"shell char in long name", []string{"--a;b"}, "bad option name"},
		{"shell char short", []string{"-$x"}, "bad option name"},
		{"question mark", []string{"-?"}, "bad option name"},
		{"control char", []string{"--a\x01"}, "bad option name"},
		{"bad char in group", []string{"-:a!"}, "bad option name"},
		{"empty long name", []string{"--=x"}, "missing option name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-v"}, tt.args...)
			args = append(args, "pos")
			orig := append([]string(nil), args...)
			_, err := Pop(&args)
			var exitErr *sysexits.Error
			if !errors.As(err, &exitErr) {
				t.Fatalf("Pop() error = %v, want *sysexits.Error", err)
			}
			if exitErr.Code != sysexits.Usage {
				t.Errorf("code = %d, want %d", exitErr.Code, sysexits.Usage)
			}
			if exitErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", exitErr.Message, tt.wantMsg)
			}
			if diff := cmp.Diff(orig, args, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("args modified on error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopLenient(t *testing.T) {
	args := []string{"--bad name=1", "-:ab", "--=x", "rest"}
	opts := PopLenient(&args)
	want := []Option{With("bad name", "1"), With(":", "ab"), With("", "x")}
	if diff := cmp.Diff(want, opts, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rest"}, args, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestPopIdempotentOnPositionals(t *testing.T) {
	inputs := [][]string{
		{"-a", "file", "-b"},
		{"--x=1", "-", "--y"},
		{"plain", "args"},
		{"-v"},
		{"-n5", "", "--"},
	}
	for _, in := range inputs {
		args := append([]string(nil), in...)
		if _, err := Pop(&args); err != nil {
			t.Fatalf("Pop(%q) error = %v", in, err)
		}
		again := append([]string(nil), args...)
		opts, err := Pop(&again)
		if err != nil {
			t.Fatalf("second Pop(%q) error = %v", args, err)
		}
		if len(opts) != 0 {
			t.Errorf("second Pop(%q) options = %v, want none", args, opts)
		}
		if diff := cmp.Diff(args, again, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("second Pop(%q) positionals differ (-first +second):\n%s", in, diff)
		}
	}
}

func TestOptionString(t *testing.T) {
	tests := []struct {
		opt  Option
		want string
	}{
		{Flag("x"), "--x"},
		{Flag("verbose"), "--verbose"},
		{With("n", "10"), "-n10"},
		{With("n", ""), "--n="},
		{With("lines", "5"), "--lines=5"},
		{With("name", ""), "--name="},
	}
	for _, tt := range tests {
		if got := tt.opt.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.opt, got, tt.want)
		}
	}
}
