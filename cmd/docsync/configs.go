package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signadot/docsync/encode"
	"github.com/signadot/docsync/format"
	"github.com/signadot/docsync/parse"
	"github.com/signadot/docsync/schema"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color  bool   `cli:"name=color desc='encode with color'"`
	Indent int    `cli:"name=indent desc='indent json output by this many spaces'"`
	Schema string `cli:"name=s aliases=schema desc='schema file checking every document'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// parseOpts gives the input format for path.  Flags win over the file
// suffix.
func (cfg *MainConfig) parseOpts(path string) []parse.ParseOption {
	fmat := format.FromPath(path)
	switch {
	case cfg.Y:
		fmat = format.YAMLFormat
	case cfg.J:
		fmat = format.JSONFormat
	}
	if cfg.InFormat != nil {
		fmat = *cfg.InFormat
	}
	return []parse.ParseOption{parse.ParseFormat(fmat)}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var fmt format.Format
	switch {
	case cfg.Y:
		fmt = format.YAMLFormat
	case cfg.J:
		fmt = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		fmt = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(fmt),
		encode.EncodeIndent(cfg.Indent),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	if cfg.Main == nil {
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	return res
}

// validator loads the -s schema, if any.
func (cfg *MainConfig) validator() (schema.Validator, error) {
	if cfg.Schema == "" {
		return nil, nil
	}
	s, err := schema.Load(cfg.Schema)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type DiffConfig struct {
	*MainConfig
	Listing   bool   `cli:"name=l desc='print operations as a listing'"`
	Loop      string `cli:"name=loop desc='command to produce objects to diff in a loop'"`
	LoopEvery time.Duration
	LoopLim   int `cli:"name=loopLim desc='max number of times to loop, negative for no limit'"`

	Diff *cli.Command
}

func (cfg *DiffConfig) mkLoopEvery() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		cfg.LoopEvery = d
		return d, nil
	}
}

type ApplyConfig struct {
	*MainConfig
	Apply *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Listing bool `cli:"name=l desc='print operations as a listing'"`
	Check   *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Validate *cli.Command
}

type WatchConfig struct {
	*MainConfig
	Listing bool `cli:"name=l desc='print operations as a listing'"`
	Watch   *cli.Command
}

type ServeConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=c aliases=config desc='configuration file (yaml)'"`
	Listen     string `cli:"name=listen desc='TCP listen address, overrides the configuration'"`
	Metrics    string `cli:"name=metrics desc='HTTP address serving /metrics, overrides the configuration'"`
	StateFile  string `cli:"name=state desc='file persisting the served document'"`
	LogFile    string `cli:"name=logfile desc='also write text logs to this file'"`
	Watch      bool   `cli:"name=watch desc='republish the initial document file whenever it changes'"`

	Serve *cli.Command
}

type ReplicaConfig struct {
	*MainConfig
	Name   string `cli:"name=name desc='replica name reported to the server'"`
	Until  string `cli:"name=until desc='exit once the document matches this document file'"`
	Select string `cli:"name=select desc='print only the parts of the document present in this document file'"`
	Once   bool   `cli:"name=once desc='print the first snapshot and exit'"`

	Replica *cli.Command
}
