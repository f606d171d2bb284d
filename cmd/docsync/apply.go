package main

import (
	"fmt"

	"github.com/signadot/docsync"
	"github.com/signadot/docsync/encode"

	"github.com/scott-cotton/cli"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 arguments, a patch and a document to which to apply it", cli.ErrUsage)
	}
	v, err := cfg.validator()
	if err != nil {
		return err
	}
	pNode, err := getObjFile(cc, cfg.MainConfig, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	p, err := docsync.ValidatePatchSyntax(pNode)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	target, err := getObjFile(cc, cfg.MainConfig, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	res, err := docsync.Apply(v, target, p)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	if err := encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
