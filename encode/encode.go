package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/docsync/format"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"

	"github.com/goccy/go-yaml"
)

type EncState struct {
	format format.Format
	indent int
	colors *Colors
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Encode writes node to w followed by a newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newState(opts)
	var d []byte
	var err error
	switch es.format {
	case format.YAMLFormat:
		d, err = yaml.Marshal(toYAML(node))
		if err != nil {
			return err
		}
		d = bytes.TrimRight(d, "\n")
	default:
		buf := bytes.NewBuffer(nil)
		if err := es.writeJSON(buf, node, 0); err != nil {
			return err
		}
		d = buf.Bytes()
	}
	_, err = fmt.Fprintf(w, "%s\n", d)
	return err
}

func (es *EncState) writeJSON(buf *bytes.Buffer, node *ir.Node, depth int) error {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType:
	default:
		d, err := node.MarshalJSON()
		if err != nil {
			return err
		}
		buf.WriteString(es.colors.Color(node.Type, ValueColor, string(d)))
		return nil
	}
	lb, rb := "{", "}"
	if node.Type == ir.ArrayType {
		lb, rb = "[", "]"
	}
	buf.WriteString(es.colors.Color(node.Type, SepColor, lb))
	for i, v := range node.Values {
		if i != 0 {
			buf.WriteString(es.colors.Color(node.Type, SepColor, ","))
		}
		es.newline(buf, depth+1)
		if node.Type == ir.ObjectType {
			key, err := json.Marshal(node.Fields[i])
			if err != nil {
				return err
			}
			buf.WriteString(es.colors.Color(ir.ObjectType, FieldColor, string(key)))
			buf.WriteString(es.colors.Color(ir.ObjectType, SepColor, ":"))
			if es.indent > 0 {
				buf.WriteByte(' ')
			}
		}
		if err := es.writeJSON(buf, v, depth+1); err != nil {
			return err
		}
	}
	if len(node.Values) != 0 {
		es.newline(buf, depth)
	}
	buf.WriteString(es.colors.Color(node.Type, SepColor, rb))
	return nil
}

func (es *EncState) newline(buf *bytes.Buffer, depth int) {
	if es.indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", depth*es.indent))
}

// toYAML converts node to values goccy/go-yaml encodes in document
// order.
func toYAML(node *ir.Node) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f, Value: toYAML(node.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAML(v)
		}
		return res
	default:
		return ir.ToAny(node)
	}
}

// EncodePatch writes p to w.  In JSON or YAML format it is the wire
// form, indented when EncodeIndent is given.  Use EncodeListing for
// the one line per operation form.
func EncodePatch(p patch.Patch, w io.Writer, opts ...EncodeOption) error {
	return Encode(p.Node(), w, opts...)
}

// EncodeListing writes one line per operation of p to w.
func EncodeListing(p patch.Patch, w io.Writer, opts ...EncodeOption) error {
	es := newState(opts)
	for _, op := range p {
		line, err := listingLine(op)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, es.colors.Op(op.Kind(), line)); err != nil {
			return err
		}
	}
	return nil
}

func listingLine(op patch.Op) (string, error) {
	var (
		sym  string
		rest string
	)
	value := func(v *ir.Node) (string, error) {
		if v == nil {
			v = ir.Null()
		}
		d, err := v.MarshalJSON()
		return string(d), err
	}
	var err error
	switch o := op.(type) {
	case patch.Add:
		sym = "+"
		rest, err = value(o.Value)
	case patch.Remove:
		sym = "-"
	case patch.Replace:
		sym = "~"
		rest, err = value(o.Value)
	case patch.Move:
		return fmt.Sprintf("> %s -> %s", quotePath(o.From), quotePath(o.Path)), nil
	case patch.Copy:
		return fmt.Sprintf("= %s -> %s", quotePath(o.From), quotePath(o.Path)), nil
	case patch.Test:
		sym = "?"
		rest, err = value(o.Value)
	}
	if err != nil {
		return "", err
	}
	line := sym + " " + quotePath(op.Target())
	if rest != "" {
		line += " " + rest
	}
	return line, nil
}

// quotePath shows the root, and paths containing spaces, quoted.
func quotePath(p pointer.Pointer) string {
	s := p.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"") {
		d, _ := json.Marshal(s)
		return string(d)
	}
	return s
}

// MustString returns the compact JSON form of node.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
