package patch

import (
	"errors"

	"github.com/signadot/docsync/debug"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/pointer"
)

// Apply applies p to a deep copy of doc and returns the result.  doc is
// never modified.  On failure no result is returned and the error is an
// *Error naming the failing operation.
//
// Apply does not validate documents against a schema; see the docsync
// package for the validating entry point.
func Apply(doc *ir.Node, p Patch) (*ir.Node, error) {
	if doc == nil {
		doc = ir.Null()
	}
	res := doc.Clone()
	for i, op := range p {
		if debug.Apply() {
			debug.Logf("apply op %d: %s\n", i, op)
		}
		next, err := op.apply(res)
		if err != nil {
			var pe *Error
			if !errors.As(err, &pe) {
				pe = &Error{Err: err}
			}
			pe.Index = i
			pe.Op = op.Kind()
			pe.Path = op.Target().String()
			return nil, pe
		}
		res = next
	}
	return res, nil
}

func (o Add) apply(doc *ir.Node) (*ir.Node, error) {
	return add(doc, o.Path, valueOrNull(o.Value).Clone())
}

func (o Remove) apply(doc *ir.Node) (*ir.Node, error) {
	_, err := remove(doc, o.Path)
	return doc, err
}

func (o Replace) apply(doc *ir.Node) (*ir.Node, error) {
	val := valueOrNull(o.Value).Clone()
	if o.Path.IsRoot() {
		return val, nil
	}
	parent, err := resolve(doc, o.Path.Parent())
	if err != nil {
		return nil, err
	}
	tok := o.Path.Last()
	switch parent.Type {
	case ir.ObjectType:
		i := parent.FieldIndex(tok)
		if i == -1 {
			return nil, errorf(ErrPathNotFound, "no member %q", tok)
		}
		parent.Values[i] = val
	case ir.ArrayType:
		i, err := arrayIndex(tok, len(parent.Values), false)
		if err != nil {
			return nil, err
		}
		parent.Values[i] = val
	default:
		return nil, errorf(ErrTypeMismatch, "cannot replace %q in %s", tok, parent.Type)
	}
	return doc, nil
}

func (o Move) apply(doc *ir.Node) (*ir.Node, error) {
	if o.From.Equal(o.Path) {
		if _, err := resolve(doc, o.From); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if o.From.IsAncestorOf(o.Path) {
		return nil, errorf(ErrInvalidMove, "%q is below %q", o.Path.String(), o.From.String())
	}
	val, err := remove(doc, o.From)
	if err != nil {
		return nil, err
	}
	return add(doc, o.Path, val)
}

func (o Copy) apply(doc *ir.Node) (*ir.Node, error) {
	val, err := resolve(doc, o.From)
	if err != nil {
		return nil, err
	}
	return add(doc, o.Path, val.Clone())
}

func (o Test) apply(doc *ir.Node) (*ir.Node, error) {
	val, err := resolve(doc, o.Path)
	if err != nil {
		return nil, err
	}
	if !ir.Equal(val, valueOrNull(o.Value)) {
		return nil, errorf(ErrTestFailed, "value differs")
	}
	return doc, nil
}

// resolve returns the node at p, without copying it.
func resolve(doc *ir.Node, p pointer.Pointer) (*ir.Node, error) {
	res := doc
	for _, tok := range p {
		switch res.Type {
		case ir.ObjectType:
			i := res.FieldIndex(tok)
			if i == -1 {
				return nil, errorf(ErrPathNotFound, "no member %q", tok)
			}
			res = res.Values[i]
		case ir.ArrayType:
			i, err := arrayIndex(tok, len(res.Values), false)
			if err != nil {
				return nil, err
			}
			res = res.Values[i]
		default:
			return nil, errorf(ErrTypeMismatch, "cannot index %s with %q", res.Type, tok)
		}
	}
	return res, nil
}

func add(doc *ir.Node, p pointer.Pointer, val *ir.Node) (*ir.Node, error) {
	if p.IsRoot() {
		return val, nil
	}
	parent, err := resolve(doc, p.Parent())
	if err != nil {
		return nil, err
	}
	tok := p.Last()
	switch parent.Type {
	case ir.ObjectType:
		parent.Set(tok, val)
	case ir.ArrayType:
		i, err := arrayIndex(tok, len(parent.Values), true)
		if err != nil {
			return nil, err
		}
		parent.Insert(i, val)
	default:
		return nil, errorf(ErrTypeMismatch, "cannot add %q to %s", tok, parent.Type)
	}
	return doc, nil
}

// remove detaches and returns the node at p.
func remove(doc *ir.Node, p pointer.Pointer) (*ir.Node, error) {
	if p.IsRoot() {
		return nil, errorf(ErrRootRemove, "")
	}
	parent, err := resolve(doc, p.Parent())
	if err != nil {
		return nil, err
	}
	tok := p.Last()
	switch parent.Type {
	case ir.ObjectType:
		val := parent.Delete(tok)
		if val == nil {
			return nil, errorf(ErrPathNotFound, "no member %q", tok)
		}
		return val, nil
	case ir.ArrayType:
		i, err := arrayIndex(tok, len(parent.Values), false)
		if err != nil {
			return nil, err
		}
		return parent.RemoveAt(i), nil
	default:
		return nil, errorf(ErrTypeMismatch, "cannot remove %q from %s", tok, parent.Type)
	}
}

func arrayIndex(tok string, n int, allowEnd bool) (int, error) {
	i, err := pointer.ArrayIndex(tok, n, allowEnd)
	switch {
	case err == nil:
		return i, nil
	case errors.Is(err, pointer.ErrIndex):
		return 0, errorf(ErrMalformedPath, "%v", err)
	default:
		return 0, errorf(ErrPathNotFound, "%v", err)
	}
}
