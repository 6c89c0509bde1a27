// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optics

import (
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/runk/pkg/sysexits"
)

// Duration parses a Go duration ("1m30s") into a time.Duration.
var Duration = Func(duration)

func duration(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return nil, sysexits.New(sysexits.Usage, "expected duration for option "+name)
	}
	return d, nil
}

// Version parses a semantic version into a *semver.Version.
var Version = Func(version)

func version(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	v, err := semver.NewVersion(*value)
	if err != nil {
		return nil, sysexits.New(sysexits.Usage, "expected version for option "+name)
	}
	return v, nil
}

// UUID parses an RFC 4122 UUID into a uuid.UUID.
var UUID = Func(uuidRule)

func uuidRule(name string, value *string, _ any) (any, error) {
	if value == nil || *value == "" {
		return nil, sysexits.MissingValue(name)
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, sysexits.New(sysexits.Usage, "expected UUID for option "+name)
	}
	return id, nil
}
