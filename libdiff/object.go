package libdiff

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"
)

// DiffObject compares two objects found at at:
//
//  1. every member only in to is added, in the order of to
//  2. every member only in from is removed, in the order of from
//  3. every shared member is compared with df, in the order of from
//
// The member "" of the root object cannot be addressed, since "/"
// denotes the root itself; when it differs the whole root is replaced.
func DiffObject(dst patch.Patch, at pointer.Pointer, from, to *ir.Node, df DiffFunc) patch.Patch {
	if at.IsRoot() && !emptyKeyAgrees(from, to) {
		return MakeReplace(dst, at, to)
	}
	for i, f := range to.Fields {
		if from.FieldIndex(f) == -1 {
			dst = MakeAdd(dst, at.Append(f), to.Values[i])
		}
	}
	for _, f := range from.Fields {
		if to.FieldIndex(f) == -1 {
			dst = MakeRemove(dst, at.Append(f))
		}
	}
	for i, f := range from.Fields {
		j := to.FieldIndex(f)
		if j == -1 {
			continue
		}
		dst = df(dst, at.Append(f), from.Values[i], to.Values[j])
	}
	return dst
}

func emptyKeyAgrees(from, to *ir.Node) bool {
	fv, tv := ir.Get(from, ""), ir.Get(to, "")
	if fv == nil || tv == nil {
		return fv == tv
	}
	return ir.Equal(fv, tv)
}
