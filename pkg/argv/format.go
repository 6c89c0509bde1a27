// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import "strings"

// Format rebuilds an argument vector that Pop splits back into opts and args.
// A "--" separator is inserted only when the first positional argument would
// otherwise be read as an option.
func Format(opts []Option, args []string) []string {
	out := make([]string, 0, len(opts)+len(args)+1)
	for _, o := range opts {
		out = append(out, o.String())
	}
	if len(args) > 0 && needsSeparator(args[0]) {
		out = append(out, "--")
	}
	return append(out, args...)
}

func needsSeparator(first string) bool {
	return len(first) > 1 && first[0] == '-'
}

func isSafe(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	return strings.ContainsRune("-_=+:,./", r)
}

// Quote returns s quoted for a POSIX shell. Strings made only of letters,
// digits and -_=+:,./ are returned unchanged.
func Quote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool { return !isSafe(r) }) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join quotes every element of argv and joins them with spaces.
func Join(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}
