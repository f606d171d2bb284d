// Package parse decodes JSON and YAML input into documents.
//
// JSON is decoded by the ir package itself.  YAML is decoded with
// github.com/goccy/go-yaml, keeping mapping keys in document order.
// Only the JSON subset of YAML is representable: mapping keys become
// strings and non-finite numbers are rejected.
package parse

import (
	"fmt"
	"os"
	"time"

	"github.com/signadot/docsync/format"
	"github.com/signadot/docsync/ir"

	"github.com/goccy/go-yaml"
)

// Parse decodes d, as JSON unless an option says otherwise.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.JSONFormat}
	for _, f := range opts {
		f(pOpts)
	}
	switch pOpts.format {
	case format.YAMLFormat:
		return parseYAML(d)
	default:
		res, err := ir.FromJSON(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return res, nil
	}
}

// File reads and decodes the file at path, choosing the format from its
// suffix when no option is given.
func File(path string, opts ...ParseOption) (*ir.Node, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]ParseOption{ParseFormat(format.FromPath(path))}, opts...)
	res, err := Parse(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func parseYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYAML, err)
	}
	res, err := fromYAML(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYAML, err)
	}
	return res, nil
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, len(x))
		for i, item := range x {
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			kvs[i] = ir.KeyVal{Key: yamlKey(item.Key), Val: val}
		}
		return ir.FromKeyVals(kvs), nil
	case []any:
		vals := make([]*ir.Node, len(x))
		for i, e := range x {
			val, err := fromYAML(e)
			if err != nil {
				return nil, err
			}
			vals[i] = val
		}
		return ir.FromSlice(vals), nil
	case time.Time:
		return ir.FromString(x.Format(time.RFC3339Nano)), nil
	default:
		return ir.FromAny(v)
	}
}

func yamlKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}
