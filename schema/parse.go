package schema

import (
	"fmt"
	"math"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/parse"

	"github.com/expr-lang/expr"
)

// Load reads a schema from a JSON or YAML file.
func Load(path string) (*Schema, error) {
	node, err := parse.File(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSchema(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSchema builds a schema from its document form.  Unknown keywords
// are rejected.
func ParseSchema(node *ir.Node) (*Schema, error) {
	return parseSchema(node, nil, "")
}

func parseSchema(node *ir.Node, parent *Schema, at string) (*Schema, error) {
	if node == nil || node.Type != ir.ObjectType {
		return nil, schemaErr(at, "schema must be an object")
	}
	s := &Schema{parent: parent}
	for i, f := range node.Fields {
		v := node.Values[i]
		kat := at + "/" + f
		var err error
		switch f {
		case "name":
			s.Name, err = str(v, kat)
		case "ref":
			s.Ref, err = str(v, kat)
		case "type":
			s.Types, err = types(v, kat)
		case "enum":
			if v.Type != ir.ArrayType {
				return nil, schemaErr(kat, "enum must be an array")
			}
			s.Enum = v.Clone().Values
			if s.Enum == nil {
				s.Enum = []*ir.Node{}
			}
		case "const":
			s.Const = v.Clone()
		case "default":
			s.Default = v.Clone()
		case "required":
			s.Required, err = strs(v, kat)
		case "additionalProperties":
			switch v.Type {
			case ir.BoolType:
				s.Closed = !v.Bool
			default:
				s.Additional, err = parseSchema(v, s, kat)
			}
		case "items":
			s.Items, err = parseSchema(v, s, kat)
		case "minItems":
			s.MinItems, err = count(v, kat)
		case "maxItems":
			s.MaxItems, err = count(v, kat)
		case "minLength":
			s.MinLength, err = count(v, kat)
		case "maxLength":
			s.MaxLength, err = count(v, kat)
		case "minimum":
			s.Minimum, err = number(v, kat)
		case "maximum":
			s.Maximum, err = number(v, kat)
		case "assert":
			s.Assert, err = str(v, kat)
		case "properties", "define":
			// parsed below, once s can be referenced as a parent
		default:
			return nil, schemaErr(kat, "unknown keyword")
		}
		if err != nil {
			return nil, err
		}
	}
	if v := ir.Get(node, "define"); v != nil {
		if v.Type != ir.ObjectType {
			return nil, schemaErr(at+"/define", "define must be an object")
		}
		s.Define = make(map[string]*Schema, len(v.Fields))
		for i, name := range v.Fields {
			d, err := parseSchema(v.Values[i], s, at+"/define/"+name)
			if err != nil {
				return nil, err
			}
			s.Define[name] = d
		}
	}
	if v := ir.Get(node, "properties"); v != nil {
		if v.Type != ir.ObjectType {
			return nil, schemaErr(at+"/properties", "properties must be an object")
		}
		for i, name := range v.Fields {
			p, err := parseSchema(v.Values[i], s, at+"/properties/"+name)
			if err != nil {
				return nil, err
			}
			s.Properties = append(s.Properties, Property{Name: name, Schema: p})
		}
	}
	if s.Assert != "" {
		prg, err := expr.Compile(s.Assert)
		if err != nil {
			return nil, schemaErr(at+"/assert", err.Error())
		}
		s.program = prg
	}
	return s, nil
}

func schemaErr(at, msg string) error {
	if at == "" {
		return fmt.Errorf("%w: %s", ErrSchema, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrSchema, at, msg)
}

func str(v *ir.Node, at string) (string, error) {
	if v.Type != ir.StringType {
		return "", schemaErr(at, "expected a string, got "+v.Type.String())
	}
	return v.String, nil
}

func strs(v *ir.Node, at string) ([]string, error) {
	if v.Type != ir.ArrayType {
		return nil, schemaErr(at, "expected an array of strings")
	}
	res := make([]string, len(v.Values))
	for i, e := range v.Values {
		s, err := str(e, at)
		if err != nil {
			return nil, err
		}
		res[i] = s
	}
	return res, nil
}

func types(v *ir.Node, at string) ([]string, error) {
	var res []string
	if v.Type == ir.StringType {
		res = []string{v.String}
	} else {
		var err error
		if res, err = strs(v, at); err != nil {
			return nil, err
		}
	}
	for _, t := range res {
		switch t {
		case "null", "boolean", "number", "integer", "string", "array", "object":
		default:
			return nil, schemaErr(at, fmt.Sprintf("unknown type %q", t))
		}
	}
	return res, nil
}

func count(v *ir.Node, at string) (*int, error) {
	f, ok := v.Float()
	if v.Type != ir.NumberType || !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return nil, schemaErr(at, "expected a non-negative integer")
	}
	n := int(f)
	return &n, nil
}

func number(v *ir.Node, at string) (*float64, error) {
	f, ok := v.Float()
	if v.Type != ir.NumberType || !ok {
		return nil, schemaErr(at, "expected a number")
	}
	return &f, nil
}
