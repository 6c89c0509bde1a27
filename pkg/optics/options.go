// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optics

import (
	"fmt"
	"reflect"
	"strings"
)

// Options holds coerced option values by canonical key.
type Options map[string]any

// Has reports whether key was set.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Get returns the value stored under key, or nil.
func (o Options) Get(key string) any {
	return o[key]
}

// String returns the string stored under key, or def if the key is unset or
// holds another type.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool stored under key, or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the int stored under key, or def.
func (o Options) Int(key string, def int) int {
	if n, ok := o[key].(int); ok {
		return n
	}
	return def
}

// Strings returns the list stored under key by RawList, or by ListOf with a
// string-valued rule.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}

// DecodeError reports an option whose value could not be stored in the
// destination struct field.
type DecodeError struct {
	Key   string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("option %s: field %s: %v", e.Key, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode copies options into the struct pointed to by dst. A field is matched
// by its `opt:"key"` tag, or by its lower-cased name when untagged; `opt:"-"`
// skips the field. Unset keys leave the field alone, so defaults can be set on
// dst beforehand.
//
// Values are assigned directly when their type allows it, converted between
// numeric kinds, and allocated for pointer fields. A []any produced by ListOf
// is converted element by element into the field's slice type.
func (o Options) Decode(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("optics: Decode needs a non-nil struct pointer, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		ft := t.Field(i)
		if !field.CanSet() {
			continue
		}
		key := ft.Tag.Get("opt")
		if key == "-" {
			continue
		}
		if key == "" {
			key = strings.ToLower(ft.Name)
		}
		val, ok := o[key]
		if !ok || val == nil {
			continue
		}
		if err := setField(field, reflect.ValueOf(val)); err != nil {
			return &DecodeError{Key: key, Field: ft.Name, Err: err}
		}
	}
	return nil
}

func setField(field, val reflect.Value) error {
	ft := field.Type()
	switch {
	case val.Type().AssignableTo(ft):
		field.Set(val)
		return nil
	case ft.Kind() == reflect.Pointer:
		elem := reflect.New(ft.Elem())
		if err := setField(elem.Elem(), val); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	case ft.Kind() == reflect.Slice && val.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			e := val.Index(i)
			if e.Kind() == reflect.Interface {
				e = e.Elem()
			}
			if !e.IsValid() {
				continue
			}
			if err := setField(out.Index(i), e); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil
	case isNumber(val.Kind()) && isNumber(ft.Kind()):
		field.Set(val.Convert(ft))
		return nil
	}
	return fmt.Errorf("cannot store %s in %s", val.Type(), ft)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
