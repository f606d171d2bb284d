package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/parse"
	"github.com/signadot/docsync/state"

	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: watch requires 1 file argument, got %v", cli.ErrUsage, args)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return follow(cfg.MainConfig, cc.Out, cfg.Listing, fileSource(ctx, args[0], cfg.parseOpts(args[0])))
}

// follow takes the first document of src as the baseline and prints
// the operations of every later change.  Documents which fail to parse
// or validate are reported and skipped.
func follow(cfg *MainConfig, w io.Writer, listing bool, src iter.Seq2[*ir.Node, error]) error {
	v, err := cfg.validator()
	if err != nil {
		return err
	}
	next, stop := iter.Pull2(src)
	defer stop()

	var h *state.Holder
	for h == nil {
		doc, err, ok := next()
		if !ok {
			return nil
		}
		if err == nil {
			h, err = state.New(v, doc)
		}
		if err != nil {
			slog.Warn("skipping document", "error", err)
		}
	}
	rest := func(yield func(*ir.Node, error) bool) {
		for {
			doc, err, ok := next()
			if !ok || !yield(doc, err) {
				return
			}
		}
	}
	n := 0
	for p, err := range h.Follow(rest) {
		if err != nil {
			slog.Warn("skipping document", "error", err)
			continue
		}
		if err := writeChange(cfg, w, p, listing, n > 0); err != nil {
			return err
		}
		n++
	}
	return nil
}

// commandSource runs shell every interval, yielding its parsed output.
// A negative lim runs until ctx is done.
func commandSource(ctx context.Context, shell string, every time.Duration, lim int, opts []parse.ParseOption) iter.Seq2[*ir.Node, error] {
	return func(yield func(*ir.Node, error) bool) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for i := 0; lim < 0 || i < lim; i++ {
			if i > 0 {
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return
				}
			}
			if !yield(runCommand(ctx, shell, opts)) {
				return
			}
		}
	}
}

func runCommand(ctx context.Context, shell string, opts []parse.ParseOption) (*ir.Node, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", shell)
	cmd.Stderr = os.Stderr
	d, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("command %q exited with an error: %w", shell, err)
	}
	res, err := parse.Parse(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("error decoding command output: %w", err)
	}
	return res, nil
}

// fileSource yields the parsed content of path, then again each time it
// is written or replaced, until ctx is done.
func fileSource(ctx context.Context, path string, opts []parse.ParseOption) iter.Seq2[*ir.Node, error] {
	return func(yield func(*ir.Node, error) bool) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			yield(nil, fmt.Errorf("create watcher: %w", err))
			return
		}
		defer watcher.Close()

		// Watch the directory so editors' atomic saves are seen.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			yield(nil, fmt.Errorf("watch directory: %w", err))
			return
		}
		if !yield(parse.File(path, opts...)) {
			return
		}
		name := filepath.Base(path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !yield(parse.File(path, opts...)) {
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if !yield(nil, fmt.Errorf("file watcher: %w", err)) {
					return
				}
			}
		}
	}
}
