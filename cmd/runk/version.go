// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/module"
)

// buildVersion is injected at release time:
//
//	go build -ldflags "-X main.buildVersion=1.4.0" ./cmd/runk
var buildVersion string

// Version returns the runk version compared against a configuration's
// requires constraint. Releases report a bare semantic version; development
// builds report "devel" plus the VCS revision, which never satisfies or
// violates a constraint.
func Version() string {
	bi, _ := debug.ReadBuildInfo()
	return versionFrom(buildVersion, bi)
}

func versionFrom(build string, bi *debug.BuildInfo) string {
	if v := strings.TrimSpace(build); v != "" {
		return strings.TrimPrefix(v, "v")
	}
	if bi == nil {
		return "devel"
	}
	// Set by "go install github.com/yeetrun/runk/cmd/runk@vX.Y.Z".
	if v := bi.Main.Version; v != "" && v != "(devel)" && !module.IsPseudoVersion(v) {
		return strings.TrimPrefix(v, "v")
	}
	var commit string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "devel"
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	v := "devel+" + commit
	if dirty {
		v += ".dirty"
	}
	return v
}
