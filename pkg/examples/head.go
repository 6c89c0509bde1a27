// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package examples

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeetrun/runk/pkg/argv"
	"github.com/yeetrun/runk/pkg/codecutil"
	"github.com/yeetrun/runk/pkg/dispatch"
	"github.com/yeetrun/runk/pkg/optics"
)

const defaultLines = 10

// headSpec accepts -nN, --lines=N and the -N shortcut, where the digit is the
// option name and the rest of the token its value ("-12" is name 1, value 2).
var headSpec = func() optics.Spec {
	spec := optics.Spec{
		"n":     optics.Alias("lines"),
		"lines": optics.NonnegInt,
	}
	shortcut := func(name string, value *string, prev any) (any, error) {
		v := name
		if value != nil {
			v += *value
		}
		return optics.NonnegInt(name, &v, prev)
	}
	for d := '1'; d <= '9'; d++ {
		spec[string(d)] = optics.Bind{Target: "lines", Func: shortcut}
	}
	return spec
}()

type headOptions struct {
	Lines int `opt:"lines"`
}

// Head prints the first lines of each file, or of stdin for "-" or no
// arguments. With several files each is preceded by a "==> NAME <==" header.
func Head(ctx context.Context, opts []argv.Option, args []string) error {
	parsed, err := optics.Apply(opts, headSpec, nil)
	if err != nil {
		return err
	}
	o := headOptions{Lines: defaultLines}
	if err := parsed.Decode(&o); err != nil {
		return err
	}

	inv := dispatch.FromContext(ctx)
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		if len(args) > 1 {
			if _, err := fmt.Fprintf(inv.Streams.Stdout, "==> %s <==\n", name); err != nil {
				return err
			}
		}
		if err := headFile(ctx, inv, name, o.Lines); err != nil {
			return err
		}
	}
	return nil
}

func headFile(ctx context.Context, inv *dispatch.Invocation, name string, lines int) error {
	var rc io.ReadCloser
	if name == "-" {
		r, _, err := codecutil.NewReader(inv.Streams.Stdin)
		if err != nil {
			return err
		}
		rc = r
	} else {
		r, err := codecutil.Open(name)
		if err != nil {
			return err
		}
		rc = r
	}
	defer rc.Close()
	inv.Log.Debugf("head %s: %d lines", name, lines)

	br := bufio.NewReader(rc)
	for n := 0; n < lines; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := br.ReadString('\n')
		if line != "" {
			if _, werr := io.WriteString(inv.Streams.Stdout, line); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
