package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/signadot/docsync"
	"github.com/signadot/docsync/encode"
	"github.com/signadot/docsync/patch"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Loop != "" {
		if len(args) != 0 {
			return fmt.Errorf("%w: diff -loop takes no arguments, got %v", cli.ErrUsage, args)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		src := commandSource(ctx, cfg.Loop, cfg.LoopEvery, cfg.LoopLim, cfg.parseOpts(""))
		return follow(cfg.MainConfig, cc.Out, cfg.Listing, src)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff (without -loop) requires 2 args, got %v", cli.ErrUsage, args)
	}
	v, err := cfg.validator()
	if err != nil {
		return err
	}
	a, err := getObjFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := getObjFile(cc, cfg.MainConfig, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	p, err := docsync.Diff(v, a, b)
	if err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	if err := writePatch(cfg.MainConfig, cc.Out, p, cfg.Listing); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func writePatch(cfg *MainConfig, w io.Writer, p patch.Patch, listing bool) error {
	if listing {
		return encode.EncodeListing(p, w, cfg.encOpts(w)...)
	}
	return encode.EncodePatch(p, w, cfg.encOpts(w)...)
}

// writeChange writes p preceded by a comment line giving the time it
// was found.  Changes after the first are separated by "---".
func writeChange(cfg *MainConfig, w io.Writer, p patch.Patch, listing, sep bool) error {
	if sep {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return fmt.Errorf("unable to write separator: %w", err)
		}
	}
	when := time.Now().Format(time.RFC3339Nano)
	if _, err := w.Write([]byte("# difference found at " + when + "\n")); err != nil {
		return err
	}
	return writePatch(cfg, w, p, listing)
}
