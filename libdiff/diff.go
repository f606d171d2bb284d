package libdiff

import (
	"github.com/signadot/docsync/debug"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"
)

// DiffFunc appends to dst the operations turning from into to, where
// both are found at the location at.
type DiffFunc func(dst patch.Patch, at pointer.Pointer, from, to *ir.Node) patch.Patch

// Diff returns the operations which transform from into to.  If there
// are no differences, Diff returns an empty patch.
//
// The result is deterministic: object members are visited in document
// order and array elements by alignment of equal elements.
func Diff(from, to *ir.Node) patch.Patch {
	if from == nil {
		from = ir.Null()
	}
	if to == nil {
		to = ir.Null()
	}
	res := doDiff(patch.Patch{}, pointer.Root, from, to)
	if debug.Diff() {
		debug.Logf("diff %v -> %v: %s\n", from, to, res)
	}
	return res
}

func doDiff(dst patch.Patch, at pointer.Pointer, from, to *ir.Node) patch.Patch {
	if from.Type != to.Type {
		return MakeReplace(dst, at, to)
	}
	switch from.Type {
	case ir.ObjectType:
		return DiffObject(dst, at, from, to, doDiff)
	case ir.ArrayType:
		return DiffArray(dst, at, from, to, doDiff)
	default:
		if ir.Equal(from, to) {
			return dst
		}
		return MakeReplace(dst, at, to)
	}
}
