package patch

import (
	"fmt"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/pointer"
)

// Decode decodes and validates the JSON wire form of a patch.
func Decode(d []byte) (Patch, error) {
	node, err := ir.FromJSON(d)
	if err != nil {
		return nil, &SyntaxError{Index: -1, Msg: err.Error()}
	}
	return FromNode(node)
}

// FromNode checks that v is an ordered sequence of well formed operation
// objects and returns the corresponding Patch.  The first violation is
// reported as a *SyntaxError.  Members other than op, path, from and
// value are ignored.
func FromNode(v *ir.Node) (Patch, error) {
	if v == nil || v.Type != ir.ArrayType {
		typ := "nothing"
		if v != nil {
			typ = v.Type.String()
		}
		return nil, &SyntaxError{Index: -1, Msg: "expected an array of operations, got " + typ}
	}
	res := make(Patch, 0, len(v.Values))
	for i, elt := range v.Values {
		op, err := opFromNode(i, elt)
		if err != nil {
			return nil, err
		}
		res = append(res, op)
	}
	return res, nil
}

func opFromNode(i int, elt *ir.Node) (Op, error) {
	if elt.Type != ir.ObjectType {
		return nil, &SyntaxError{Index: i, Msg: "expected an object, got " + elt.Type.String()}
	}
	kindNode := ir.Get(elt, "op")
	if kindNode == nil {
		return nil, &SyntaxError{Index: i, Field: "op", Msg: "is required"}
	}
	if kindNode.Type != ir.StringType {
		return nil, &SyntaxError{Index: i, Field: "op", Msg: "must be a string, got " + kindNode.Type.String()}
	}
	kind := Kind(kindNode.String)
	if !kind.Valid() {
		return nil, &SyntaxError{Index: i, Field: "op", Msg: fmt.Sprintf("unknown operation %q, want one of %v", kindNode.String, Kinds())}
	}
	path, err := pointerField(i, elt, "path")
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindRemove:
		return Remove{Path: path}, nil
	case KindMove, KindCopy:
		from, err := pointerField(i, elt, "from")
		if err != nil {
			return nil, err
		}
		if kind == KindMove {
			return Move{From: from, Path: path}, nil
		}
		return Copy{From: from, Path: path}, nil
	}
	value := ir.Get(elt, "value")
	if value == nil {
		return nil, &SyntaxError{Index: i, Field: "value", Msg: "is required for " + string(kind)}
	}
	switch kind {
	case KindAdd:
		return Add{Path: path, Value: value}, nil
	case KindReplace:
		return Replace{Path: path, Value: value}, nil
	default:
		return Test{Path: path, Value: value}, nil
	}
}

func pointerField(i int, elt *ir.Node, field string) (pointer.Pointer, error) {
	v := ir.Get(elt, field)
	if v == nil {
		return nil, &SyntaxError{Index: i, Field: field, Msg: "is required"}
	}
	if v.Type != ir.StringType {
		return nil, &SyntaxError{Index: i, Field: field, Msg: "must be a string, got " + v.Type.String()}
	}
	p, err := pointer.Parse(v.String)
	if err != nil {
		return nil, &SyntaxError{Index: i, Field: field, Msg: err.Error()}
	}
	return p, nil
}
