// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		args []string
		want []string
	}{
		{
			name: "short and long",
			opts: []Option{With("n", "10"), Flag("v"), With("name", "x y")},
			args: []string{"a", "b"},
			want: []string{"-n10", "--v", "--name=x y", "a", "b"},
		},
		{
			name: "separator for dash-leading positional",
			opts: []Option{Flag("q")},
			args: []string{"-x", "y"},
			want: []string{"--q", "--", "-x", "y"},
		},
		{
			name: "lone dash needs no separator",
			args: []string{"-", "y"},
			want: []string{"-", "y"},
		},
		{
			name: "double dash positional",
			args: []string{"--"},
			want: []string{"--", "--"},
		},
		{
			name: "empty values",
			opts: []Option{With("n", ""), With("long", "")},
			want: []string{"--n=", "--long="},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.opts, tt.args)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Format mismatch (-want +got):\n%s", diff)
			}
			opts, err := Pop(&got)
			if err != nil {
				t.Fatalf("Pop(Format()) error = %v", err)
			}
			if diff := cmp.Diff(tt.opts, opts, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("options did not round-trip (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.args, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("positionals did not round-trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a-b_c=d+e:f,g./h", "a-b_c=d+e:f,g./h"},
		{"", "''"},
		{"two words", "'two words'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Join([]string{"prog", "--name=a b", "x"}); got != "prog '--name=a b' x" {
		t.Errorf("Join = %q", got)
	}
}
