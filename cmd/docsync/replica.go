package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/signadot/docsync"
	"github.com/signadot/docsync/encode"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/system/syncd/replica"

	"github.com/scott-cotton/cli"
)

func runReplica(cfg *ReplicaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replica.Parse(cc, args)
	if err != nil {
		return err
	}
	addr := "localhost:9124"
	switch len(args) {
	case 0:
	case 1:
		addr = args[0]
	default:
		return fmt.Errorf("%w: replica takes at most 1 address argument, got %v", cli.ErrUsage, args)
	}
	v, err := cfg.validator()
	if err != nil {
		return err
	}
	var until, sel *ir.Node
	if cfg.Until != "" {
		if until, err = getObjFile(cc, cfg.MainConfig, cfg.Until); err != nil {
			return fmt.Errorf("error decoding %s: %w", cfg.Until, err)
		}
	}
	if cfg.Select != "" {
		if sel, err = getObjFile(cc, cfg.MainConfig, cfg.Select); err != nil {
			return fmt.Errorf("error decoding %s: %w", cfg.Select, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel()}))
	r, err := replica.Dial(ctx, addr, &replica.Options{
		Validator: v,
		Name:      cfg.Name,
		Log:       log,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	last := int64(-1)
	for i := 0; ; i++ {
		seq, doc, err := r.WaitFor(ctx, func(seq int64, _ *ir.Node) bool {
			return seq != last
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		last = seq
		out := doc
		if sel != nil {
			out = docsync.Trim(sel, doc)
		}
		if i > 0 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(cc.Out, "# seq %d\n", seq); err != nil {
			return err
		}
		if err := encode.Encode(out, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding document: %w", err)
		}
		if cfg.Once || (until != nil && docsync.Match(doc, until)) {
			return nil
		}
	}
}
