package schema

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/pointer"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// maxRefChain bounds ref indirections taken without descending into
// the document, which only a cyclic definition exceeds.
const maxRefChain = 64

// Schema is a declarative Validator.  Unset keywords impose nothing.
type Schema struct {
	Name   string
	Define map[string]*Schema
	Ref    string

	Types []string
	Enum  []*ir.Node
	Const *ir.Node

	Properties []Property
	Required   []string
	// Additional validates members not listed in Properties, when set.
	Additional *Schema
	// Closed rejects members not listed in Properties.
	Closed bool

	Items    *Schema
	MinItems *int
	MaxItems *int

	MinLength *int
	MaxLength *int

	Minimum *float64
	Maximum *float64

	Default *ir.Node
	Assert  string

	program *vm.Program
	parent  *Schema
}

type Property struct {
	Name   string
	Schema *Schema
}

// Validate checks doc and returns a copy with defaults filled in.
func (s *Schema) Validate(doc *ir.Node) (*ir.Node, error) {
	if doc == nil {
		doc = ir.Null()
	}
	res := doc.Clone()
	if err := s.validate(res, pointer.Root, 0); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Schema) validate(n *ir.Node, at pointer.Pointer, refs int) error {
	if s.Ref != "" {
		if refs >= maxRefChain {
			return &ValidationError{Path: at.String(), Msg: fmt.Sprintf("ref %q does not terminate", s.Ref)}
		}
		target := s.resolve(s.Ref)
		if target == nil {
			return &ValidationError{Path: at.String(), Msg: fmt.Sprintf("unknown ref %q", s.Ref)}
		}
		if err := target.validate(n, at, refs+1); err != nil {
			return err
		}
	}
	if len(s.Types) != 0 && !slices.ContainsFunc(s.Types, func(t string) bool { return typeMatches(t, n) }) {
		return mismatch(at, typeList(s.Types), typeName(n))
	}
	if s.Const != nil && !ir.Equal(s.Const, n) {
		return mismatch(at, jsonString(s.Const), jsonString(n))
	}
	if s.Enum != nil && !slices.ContainsFunc(s.Enum, func(e *ir.Node) bool { return ir.Equal(e, n) }) {
		return &ValidationError{Path: at.String(), Actual: jsonString(n), Expected: "one of " + jsonString(ir.FromSlice(s.Enum))}
	}
	var err error
	switch n.Type {
	case ir.ObjectType:
		err = s.validateObject(n, at)
	case ir.ArrayType:
		err = s.validateArray(n, at)
	case ir.StringType:
		err = s.validateString(n, at)
	case ir.NumberType:
		err = s.validateNumber(n, at)
	}
	if err != nil {
		return err
	}
	return s.runAssert(n, at)
}

func (s *Schema) validateObject(n *ir.Node, at pointer.Pointer) error {
	for _, p := range s.Properties {
		if p.Schema.Default != nil && n.FieldIndex(p.Name) == -1 {
			n.Set(p.Name, p.Schema.Default.Clone())
		}
	}
	for _, r := range s.Required {
		if n.FieldIndex(r) == -1 {
			return &ValidationError{Path: at.Append(r).String(), Msg: "required member is missing"}
		}
	}
	for i, f := range n.Fields {
		ps := s.property(f)
		switch {
		case ps != nil:
		case s.Closed:
			return &ValidationError{Path: at.Append(f).String(), Msg: "member is not allowed"}
		case s.Additional != nil:
			ps = s.Additional
		default:
			continue
		}
		if err := ps.validate(n.Values[i], at.Append(f), 0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

func (s *Schema) validateArray(n *ir.Node, at pointer.Pointer) error {
	if s.MinItems != nil && len(n.Values) < *s.MinItems {
		return mismatch(at, fmt.Sprintf("at least %d items", *s.MinItems), fmt.Sprintf("%d", len(n.Values)))
	}
	if s.MaxItems != nil && len(n.Values) > *s.MaxItems {
		return mismatch(at, fmt.Sprintf("at most %d items", *s.MaxItems), fmt.Sprintf("%d", len(n.Values)))
	}
	if s.Items == nil {
		return nil
	}
	for i, v := range n.Values {
		if err := s.Items.validate(v, at.AppendIndex(i), 0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateString(n *ir.Node, at pointer.Pointer) error {
	l := utf8.RuneCountInString(n.String)
	if s.MinLength != nil && l < *s.MinLength {
		return mismatch(at, fmt.Sprintf("length at least %d", *s.MinLength), fmt.Sprintf("length %d", l))
	}
	if s.MaxLength != nil && l > *s.MaxLength {
		return mismatch(at, fmt.Sprintf("length at most %d", *s.MaxLength), fmt.Sprintf("length %d", l))
	}
	return nil
}

func (s *Schema) validateNumber(n *ir.Node, at pointer.Pointer) error {
	f, ok := n.Float()
	if !ok {
		return mismatch(at, "a finite number", n.Number)
	}
	if s.Minimum != nil && f < *s.Minimum {
		return mismatch(at, fmt.Sprintf("at least %v", *s.Minimum), n.Number)
	}
	if s.Maximum != nil && f > *s.Maximum {
		return mismatch(at, fmt.Sprintf("at most %v", *s.Maximum), n.Number)
	}
	return nil
}

func (s *Schema) runAssert(n *ir.Node, at pointer.Pointer) error {
	if s.program == nil {
		return nil
	}
	out, err := expr.Run(s.program, map[string]any{"value": ir.ToAny(n)})
	if err != nil {
		return &ValidationError{Path: at.String(), Msg: fmt.Sprintf("assert %q: %v", s.Assert, err), Err: err}
	}
	if ok, _ := out.(bool); !ok {
		return &ValidationError{Path: at.String(), Msg: fmt.Sprintf("assert %q failed", s.Assert)}
	}
	return nil
}

// resolve finds a definition in this or an enclosing schema, then in
// the registry.
func (s *Schema) resolve(name string) *Schema {
	for p := s; p != nil; p = p.parent {
		if d, ok := p.Define[name]; ok {
			return d
		}
	}
	return Lookup(name)
}

func typeMatches(t string, n *ir.Node) bool {
	switch t {
	case "integer":
		f, ok := n.Float()
		return n.Type == ir.NumberType && ok && f == math.Trunc(f)
	default:
		return typeName(n) == t
	}
}

var jsonTypes = map[ir.Type]string{
	ir.NullType:   "null",
	ir.BoolType:   "boolean",
	ir.NumberType: "number",
	ir.StringType: "string",
	ir.ArrayType:  "array",
	ir.ObjectType: "object",
}

func typeName(n *ir.Node) string {
	return jsonTypes[n.Type]
}

func typeList(ts []string) string {
	if len(ts) == 1 {
		return ts[0]
	}
	return fmt.Sprintf("one of %v", ts)
}

func mismatch(at pointer.Pointer, expected, actual string) *ValidationError {
	return &ValidationError{Path: at.String(), Expected: expected, Actual: actual}
}

func jsonString(n *ir.Node) string {
	d, err := n.MarshalJSON()
	if err != nil {
		return err.Error()
	}
	return string(d)
}
