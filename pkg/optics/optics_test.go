// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/sysexits"
)

func wantCode(t *testing.T, err error, code sysexits.Code, msg string) {
	t.Helper()
	var e *sysexits.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *sysexits.Error", err)
	}
	if e.Code != code {
		t.Errorf("code = %d, want %d", e.Code, code)
	}
	if msg != "" && e.Message != msg {
		t.Errorf("message = %q, want %q", e.Message, msg)
	}
}

func pop(t *testing.T, args ...string) []argv.Option {
	t.Helper()
	opts, err := argv.Pop(&args)
	if err != nil {
		t.Fatalf("Pop(%q) error = %v", args, err)
	}
	return opts
}

func TestApply(t *testing.T) {
	spec := Spec{
		"n":     Alias("lines"),
		"lines": NonnegInt,
		"tag":   RawList,
		"v":     StoreTrue,
		"q":     Bind{Target: "v", Func: StoreFalse},
	}
	if err := spec.Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}

	tests := []struct {
		name string
		args []string
		want Options
	}{
		{"empty", nil, Options{}},
		{"long value", []string{"--lines=5"}, Options{"lines": 5}},
		{"alias shares key", []string{"-n3", "--lines=7", "-n4"}, Options{"lines": 4}},
		{"accumulate", []string{"--tag=a", "--tag=b"}, Options{"tag": []string{"a", "b"}}},
		{"absent recorded as empty", []string{"--tag", "--tag="}, Options{"tag": []string{"", ""}}},
		{"bind last wins", []string{"-v", "-q"}, Options{"v": false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(pop(t, tt.args...), spec, nil)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFaults(t *testing.T) {
	spec := Spec{
		"lines": NonnegInt,
		"v":     StoreTrue,
		"name":  NonemptyString,
	}
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"negative", []string{"--lines=-5"}, "expected non-negative integer for option lines"},
		{"unknown", []string{"--nope"}, "unknown option nope"},
		{"unexpected value", []string{"--v=1"}, "unexpected value for option v"},
		{"missing value", []string{"--name"}, "missing value for option name"},
		{"empty value", []string{"--name="}, "missing value for option name"},
		{"first failure wins", []string{"--x", "--lines=a"}, "unknown option x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(pop(t, tt.args...), spec, nil)
			if got != nil {
				t.Errorf("Apply() = %v, want nil on error", got)
			}
			wantCode(t, err, sysexits.Usage, tt.msg)
		})
	}
}

func TestApplySeed(t *testing.T) {
	seed := Options{"tag": []string{"base"}, "other": 1}
	got, err := Apply(pop(t, "--tag=x"), Spec{"tag": RawList}, seed)
	if err != nil {
		t.Fatal(err)
	}
	want := Options{"tag": []string{"base", "x"}, "other": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Options{"tag": []string{"base"}, "other": 1}, seed); diff != "" {
		t.Errorf("seed modified (-want +got):\n%s", diff)
	}
}

func TestApplySeedUnchangedOnError(t *testing.T) {
	seed := Options{"tag": []string{"base"}}
	spec := Spec{"tag": RawList, "lines": NonnegInt}
	got, err := Apply(pop(t, "--tag=x", "--lines=5", "--bogus"), spec, seed)
	if got != nil {
		t.Errorf("Apply() = %v, want nil on error", got)
	}
	wantCode(t, err, sysexits.Usage, "unknown option bogus")
	if diff := cmp.Diff(Options{"tag": []string{"base"}}, seed); diff != "" {
		t.Errorf("seed modified (-want +got):\n%s", diff)
	}
}

// A seed list with spare capacity must not be shared between results.
func TestApplySeedListsNotShared(t *testing.T) {
	strs := make([]string, 1, 4)
	strs[0] = "base"
	anys := make([]any, 1, 4)
	anys[0] = "base"
	tests := []struct {
		name  string
		rule  Rule
		base  any
		wantA any
		wantB any
	}{
		{"raw", RawList, strs, []string{"base", "a"}, []string{"base", "b"}},
		{"list of", ListOf(AnyString), anys, []any{"base", "a"}, []any{"base", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Spec{"tag": tt.rule}
			seed := Options{"tag": tt.base}
			a, err := Apply(pop(t, "--tag=a"), spec, seed)
			if err != nil {
				t.Fatal(err)
			}
			b, err := Apply(pop(t, "--tag=b"), spec, seed)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantA, a["tag"]); diff != "" {
				t.Errorf("first result (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantB, b["tag"]); diff != "" {
				t.Errorf("second result (-want +got):\n%s", diff)
			}
		})
	}
}

// Each rule must see only the prior value of its own key.
func TestApplyIsolation(t *testing.T) {
	var seen []any
	spy := func(name string, value *string, prev any) (any, error) {
		seen = append(seen, prev)
		return name + "!", nil
	}
	spec := Spec{"a": Func(spy), "b": Func(spy), "c": Alias("a")}
	got, err := Apply(pop(t, "--a", "--b", "--c", "--b"), spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{nil, nil, "a!", "b!"}, seen); diff != "" {
		t.Errorf("prior values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Options{"a": "c!", "b": "b!"}, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecCheck(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"alias to alias", Spec{"a": Alias("b"), "b": Alias("c"), "c": AnyString}},
		{"alias to missing", Spec{"a": Alias("zz")}},
		{"nil func", Spec{"a": Func(nil)}},
		{"nil rule", Spec{"a": nil}},
		{"incomplete bind", Spec{"a": Bind{Target: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.spec.Check(), sysexits.Software, "")
		})
	}
}

func TestApplyBadSpecIsInternal(t *testing.T) {
	_, err := Apply(pop(t, "--a"), Spec{"a": Alias("missing")}, nil)
	wantCode(t, err, sysexits.Software, "")
}
