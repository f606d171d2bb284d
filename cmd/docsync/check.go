package main

import (
	"fmt"

	"github.com/signadot/docsync"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: check requires 1 argument, got %v", cli.ErrUsage, args)
	}
	node, err := getObjFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	p, err := docsync.ValidatePatchSyntax(node)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return writePatch(cfg.MainConfig, cc.Out, p, cfg.Listing)
}
