// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optics

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yeetrun/runk/pkg/sysexits"
)

// Path requires a non-empty value and returns it as a cleaned, OS-specific
// path string. The filesystem is not consulted.
var Path = Func(pathRule)

func pathRule(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	return filepath.Clean(*value), nil
}

// PurePath is Path for slash-separated paths that do not name local files,
// such as paths inside an archive or on a remote host.
var PurePath = Func(purePath)

func purePath(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	return path.Clean(*value), nil
}

// Filename is Path, failing if the path exists and is not a regular file.
var Filename = Func(filename)

func filename(name string, value *string, prev any) (any, error) {
	p, err := Path(name, value, prev)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(p.(string)); err == nil && !fi.Mode().IsRegular() {
		return nil, sysexits.New(sysexits.NoInput, "not a file: "+*value)
	}
	return p, nil
}

// Directory is Path, failing if the path exists and is not a directory.
var Directory = Func(directory)

func directory(name string, value *string, prev any) (any, error) {
	p, err := Path(name, value, prev)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(p.(string)); err == nil && !fi.IsDir() {
		return nil, sysexits.New(sysexits.NoInput, "not a directory: "+*value)
	}
	return p, nil
}

// Command resolves an executable name. A value containing "/" must be an
// existing file; anything else is searched for in $PATH. The executable bit is
// not checked.
var Command = Func(command)

func command(name string, value *string, prev any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	if strings.Contains(*value, "/") {
		return Exists(Filename)(name, value, prev)
	}
	dirs, ok := os.LookupEnv("PATH")
	if !ok {
		return nil, sysexits.New(sysexits.NoInput, "cannot lookup command without PATH: "+*value)
	}
	for _, dir := range filepath.SplitList(dirs) {
		p := filepath.Join(dir, *value)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return nil, sysexits.New(sysexits.NoInput, "no such command: "+*value)
}

// pathResult returns the string produced by a wrapped path rule.
func pathResult(name string, p any) (string, error) {
	s, ok := p.(string)
	if !ok {
		return "", sysexits.Internal(fmt.Sprintf("option %s: rule returned %T, want string", name, p))
	}
	return s, nil
}

// Exists wraps a path rule and additionally requires the path to exist.
func Exists(f Func) Func {
	return func(name string, value *string, prev any) (any, error) {
		p, err := f(name, value, prev)
		if err != nil {
			return nil, err
		}
		s, err := pathResult(name, p)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(s); err != nil {
			return nil, sysexits.New(sysexits.NoInput, "no such path: "+*value)
		}
		return s, nil
	}
}

// Absolute wraps a path rule and makes its result absolute.
func Absolute(f Func) Func {
	return func(name string, value *string, prev any) (any, error) {
		p, err := f(name, value, prev)
		if err != nil {
			return nil, err
		}
		s, err := pathResult(name, p)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(s)
		if err != nil {
			return nil, sysexits.Wrap(sysexits.OSErr, err)
		}
		return abs, nil
	}
}

// Resolve wraps a path rule and makes its result absolute with symlinks
// evaluated. The path must exist.
func Resolve(f Func) Func {
	abs := Absolute(f)
	return func(name string, value *string, prev any) (any, error) {
		p, err := abs(name, value, prev)
		if err != nil {
			return nil, err
		}
		s, err := pathResult(name, p)
		if err != nil {
			return nil, err
		}
		resolved, err := filepath.EvalSymlinks(s)
		if err != nil {
			return nil, sysexits.New(sysexits.NoInput, "no such path: "+*value)
		}
		return resolved, nil
	}
}
