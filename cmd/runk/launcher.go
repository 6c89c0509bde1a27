// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/config"
	"github.com/yeetrun/runk/pkg/diag"
	"github.com/yeetrun/runk/pkg/dispatch"
	"github.com/yeetrun/runk/pkg/logutil"
	"github.com/yeetrun/runk/pkg/optics"
	"github.com/yeetrun/runk/pkg/registry"
	"github.com/yeetrun/runk/pkg/sysexits"
)

// launcherFlags are the options accepted before TARGET. The opt tags feed
// optics.Decode and the flag, short and help tags feed the help text.
type launcherFlags struct {
	As       string   `opt:"as" flag:"as" short:"a" help:"Program name used in diagnostics" default:"[runk TARGET]"`
	SignalTB bool     `opt:"signal-tb" flag:"signal-tb" help:"Print a traceback when interrupted"`
	Config   string   `opt:"config" flag:"config" help:"Configuration file instead of the nearest runk.toml or runk.yaml"`
	Color    string   `opt:"color" flag:"color" help:"Color diagnostics: auto, always or never" default:"auto"`
	LogLevel string   `opt:"log-level" flag:"log-level" help:"Debug log level: none, error, info or debug" default:"none"`
	LogFile  string   `opt:"log-file" flag:"log-file" help:"Write the debug log to a rotated file"`
	Prepend  []string `opt:"prepend" flag:"prepend" help:"Insert an argument before the target's own (repeatable)"`
	List     bool     `opt:"list" flag:"list" short:"l" help:"List targets and aliases"`
	Version  bool     `opt:"version" flag:"version" help:"Print the version"`
}

var launcherSpec = optics.Spec{
	"as":        optics.NonemptyString,
	"a":         optics.Alias("as"),
	"signal-tb": optics.StoreTrue,
	"config":    optics.Path,
	"color": optics.Choice(map[string]any{
		"auto":   "auto",
		"always": "always",
		"never":  "never",
	}),
	"log-level": optics.Choice(map[string]any{
		"none":  "none",
		"error": "error",
		"info":  "info",
		"debug": "debug",
	}),
	"log-file": optics.Path,
	"prepend":  optics.RawList,
	"list":     optics.StoreTrue,
	"l":        optics.Alias("list"),
	"help":     optics.StoreTrue,
	"h":        optics.Alias("help"),
	"version":  optics.StoreTrue,
}

var commandInfo = yargs.CommandInfo{
	Name:        "runk",
	Description: "run a registered target and translate its outcome into an exit code",
	Examples: []string{
		"runk examples.head -3 notes.txt",
		"runk --as=head --prepend=-5 examples.head notes.txt.zst",
		"runk --help examples.head",
		"runk --list",
	},
}

type launcher struct {
	reg     *registry.Registry
	env     func(string) (string, bool)
	streams dispatch.Streams
	signals *dispatch.SignalTable
}

// request is a parsed launcher command line.
type request struct {
	flags launcherFlags
	set   optics.Options
	help  bool
	rest  []string // TARGET ARGS...
}

func failing(err error) dispatch.Handler {
	return dispatch.HandlerFunc(func(context.Context, []argv.Option, []string) error {
		return err
	})
}

// run executes the launcher command line and returns the exit code. Launcher
// faults go through a dispatcher named "runk" so they are reported and
// classified like handler faults.
func (l *launcher) run(ctx context.Context, args []string) int {
	d := &dispatch.Dispatcher{
		Name:    "runk",
		Streams: l.streams,
		Signals: l.signals,
		Log:     logutil.Discard(),
	}
	req, err := parseRequest(args)
	if err != nil {
		return d.Run(ctx, failing(err), nil)
	}
	if req.set.Has("color") {
		d.Color, _ = diag.ParseColorMode(req.flags.Color)
	}
	if req.flags.Version {
		return d.Run(ctx, dispatch.HandlerFunc(printVersion), nil)
	}

	cfg, err := l.loadConfig(req)
	if err != nil {
		return d.Run(ctx, failing(err), nil)
	}
	d.Color, _ = diag.ParseColorMode(cfg.Color)
	d.Verbose = cfg.SignalTB
	d.Log = l.openLog(cfg)
	defer d.Log.Close()
	if cfg.Path != "" {
		d.Log.Logf(logutil.LevelInfo)("config %s", cfg.Path)
	}

	switch {
	case req.help:
		return d.Run(ctx, l.helpHandler(req, cfg), nil)
	case req.flags.List:
		return d.Run(ctx, l.listHandler(cfg), nil)
	}

	if len(req.rest) == 0 || req.rest[0] == "-" {
		return d.Run(ctx, failing(sysexits.New(sysexits.Usage, "missing TARGET argument")), nil)
	}
	target := req.rest[0]
	name, entry, err := l.reg.Resolve(target, cfg.Aliases)
	if err != nil {
		return d.Run(ctx, failing(err), nil)
	}

	var targetArgs []string
	targetArgs = append(targetArgs, cfg.TargetArgs(name)...)
	targetArgs = append(targetArgs, req.flags.Prepend...)
	targetArgs = append(targetArgs, req.rest[1:]...)

	d.Name = req.flags.As
	if d.Name == "" {
		d.Name = "[runk " + target + "]"
	}
	d.Log.Debugf("target %s resolved to %s", target, name)
	return d.Run(ctx, entry.Handler, targetArgs)
}

func parseRequest(args []string) (*request, error) {
	rest := append([]string(nil), args...)
	raw, err := argv.Pop(&rest)
	if err != nil {
		return nil, err
	}
	set, err := optics.Apply(raw, launcherSpec, nil)
	if err != nil {
		return nil, err
	}
	req := &request{set: set, help: set.Bool("help", false), rest: rest}
	if err := set.Decode(&req.flags); err != nil {
		return nil, err
	}
	return req, nil
}

// loadConfig reads the configuration file, then applies the environment and
// finally the launcher options, each overriding the previous source.
func (l *launcher) loadConfig(req *request) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if req.flags.Config != "" {
		cfg, err = config.Load(req.flags.Config)
	} else {
		var dir string
		dir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadFromDir(dir)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(l.env); err != nil {
		return nil, err
	}
	f, set := req.flags, req.set
	if set.Has("signal-tb") {
		cfg.SignalTB = f.SignalTB
	}
	if set.Has("color") {
		cfg.Color = f.Color
	}
	if set.Has("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if set.Has("log-file") {
		cfg.LogFile = f.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckVersion(Version()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *launcher) openLog(cfg *config.Config) *logutil.Logger {
	level, _ := logutil.ParseLevel(cfg.LogLevel)
	if level == logutil.LevelNone {
		return logutil.Discard()
	}
	if cfg.LogFile == "" && l.streams.Stderr != nil {
		return logutil.New(l.streams.Stderr, level)
	}
	return logutil.Open(cfg.LogFile, level)
}

func printVersion(ctx context.Context, _ []argv.Option, _ []string) error {
	_, err := fmt.Fprintln(dispatch.FromContext(ctx).Streams.Stdout, "runk", Version())
	return err
}

func (l *launcher) listHandler(cfg *config.Config) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, _ []argv.Option, _ []string) error {
		w := tabwriter.NewWriter(dispatch.FromContext(ctx).Streams.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range l.reg.Names(false) {
			info, _ := l.reg.Info(name)
			fmt.Fprintf(w, "%s\t%s\n", name, info.Description)
		}
		aliases := make([]string, 0, len(cfg.Aliases))
		for alias := range cfg.Aliases {
			aliases = append(aliases, alias)
		}
		slices.Sort(aliases)
		for _, alias := range aliases {
			fmt.Fprintf(w, "%s\t-> %s\n", alias, cfg.Aliases[alias])
		}
		return w.Flush()
	})
}

func (l *launcher) helpHandler(req *request, cfg *config.Config) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, _ []argv.Option, _ []string) error {
		w := dispatch.FromContext(ctx).Streams.Stdout
		hc := l.reg.HelpConfig(commandInfo)
		if len(req.rest) == 0 {
			_, err := io.WriteString(w, yargs.GenerateGlobalHelp(hc, launcherFlags{}))
			return err
		}
		target := req.rest[0]
		if _, ok := hc.Groups[target]; ok {
			_, err := io.WriteString(w, yargs.GenerateGroupHelp(hc, target, launcherFlags{}))
			return err
		}
		name, entry, err := l.reg.Resolve(target, cfg.Aliases)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, targetHelp(name, entry.Info))
		return err
	})
}

func targetHelp(name string, info registry.Info) string {
	var b strings.Builder
	b.WriteString(name)
	if info.Description != "" {
		b.WriteString(" - ")
		b.WriteString(info.Description)
	}
	b.WriteString("\n\nUSAGE:\n")
	fmt.Fprintf(&b, "    runk [OPTIONS] %s", name)
	if info.Usage != "" {
		b.WriteString(" ")
		b.WriteString(info.Usage)
	}
	b.WriteString("\n")
	if len(info.Aliases) > 0 {
		fmt.Fprintf(&b, "\nALIASES:\n    %s\n", strings.Join(info.Aliases, ", "))
	}
	if len(info.Examples) > 0 {
		b.WriteString("\nEXAMPLES:\n")
		for _, ex := range info.Examples {
			fmt.Fprintf(&b, "    %s\n", ex)
		}
	}
	return b.String()
}
