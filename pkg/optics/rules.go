// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optics

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/yeetrun/runk/pkg/sysexits"
)

// AnyString accepts any value; an absent value becomes "".
var AnyString = Func(anyString)

func anyString(name string, value *string, _ any) (any, error) {
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// NonemptyString requires a non-empty value.
var NonemptyString = Func(nonemptyString)

func nonemptyString(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	return *value, nil
}

// StoreTrue is a flag that must not have a value. It stores true.
var StoreTrue = Func(storeTrue)

func storeTrue(name string, value *string, _ any) (any, error) {
	if value != nil {
		return nil, sysexits.UnexpectedValue(name)
	}
	return true, nil
}

// StoreFalse is StoreTrue storing false, for --no-x style options.
var StoreFalse = Func(storeFalse)

func storeFalse(name string, value *string, _ any) (any, error) {
	if value != nil {
		return nil, sysexits.UnexpectedValue(name)
	}
	return false, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Integer accepts base 10 integers with an optional leading "-".
// Signs other than a single leading "-", spaces and underscores are rejected.
var Integer = Func(integer)

func integer(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	if !allDigits(strings.TrimPrefix(*value, "-")) {
		return nil, sysexits.New(sysexits.Usage, "expected integer for option "+name)
	}
	n, err := strconv.Atoi(*value)
	if err != nil {
		return nil, sysexits.New(sysexits.Usage, "expected integer for option "+name)
	}
	return n, nil
}

// NonnegInt accepts zero and positive base 10 integers.
var NonnegInt = Func(nonnegInt)

func nonnegInt(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	n, err := strconv.Atoi(*value)
	if !allDigits(*value) || err != nil {
		return nil, sysexits.New(sysexits.Usage, "expected non-negative integer for option "+name)
	}
	return n, nil
}

// PosInt accepts positive base 10 integers.
var PosInt = Func(posInt)

func posInt(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	n, err := strconv.Atoi(*value)
	if !allDigits(*value) || err != nil || n == 0 {
		return nil, sysexits.New(sysexits.Usage, "expected positive integer for option "+name)
	}
	return n, nil
}

// RawList collects every value given for the key, in order. An occurrence
// without a value contributes "".
var RawList = Func(rawList)

func rawList(name string, value *string, prev any) (any, error) {
	list, _ := prev.([]string)
	v := ""
	if value != nil {
		v = *value
	}
	return append(slices.Clip(list), v), nil
}

// ListOf collects f(name, value, nil) for every occurrence, in order.
func ListOf(f Func) Func {
	return func(name string, value *string, prev any) (any, error) {
		list, _ := prev.([]any)
		v, err := f(name, value, nil)
		if err != nil {
			return nil, err
		}
		return append(slices.Clip(list), v), nil
	}
}

// Default returns def for an occurrence without a value and defers to f
// otherwise. This implements "--name[=value]" and "-n[value]"; note that
// "--name=" has a value (the empty string) and reaches f.
func Default(def any, f Func) Func {
	return func(name string, value *string, prev any) (any, error) {
		if value == nil {
			return def, nil
		}
		return f(name, value, prev)
	}
}

// Choice maps the accepted values to what is stored. The key "" stands for an
// absent value; without it an absent value is a missing-value error.
func Choice(choices map[string]any) Func {
	valid := make([]string, 0, len(choices))
	for k := range choices {
		if k != "" {
			valid = append(valid, k)
		}
	}
	sort.Strings(valid)
	return func(name string, value *string, _ any) (any, error) {
		if value == nil {
			if v, ok := choices[""]; ok {
				return v, nil
			}
			return nil, sysexits.MissingValue(name)
		}
		if *value != "" {
			if v, ok := choices[*value]; ok {
				return v, nil
			}
		}
		return nil, sysexits.Newf(sysexits.Usage, "unknown value for option %s (want one of %s)", name, strings.Join(valid, ", "))
	}
}
