package libdiff

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"
)

// Values placed in operations are clones, so a patch never aliases the
// document it was computed from.

func MakeAdd(dst patch.Patch, at pointer.Pointer, to *ir.Node) patch.Patch {
	return append(dst, patch.Add{Path: at, Value: to.Clone()})
}

func MakeRemove(dst patch.Patch, at pointer.Pointer) patch.Patch {
	return append(dst, patch.Remove{Path: at})
}

func MakeReplace(dst patch.Patch, at pointer.Pointer, to *ir.Node) patch.Patch {
	return append(dst, patch.Replace{Path: at, Value: to.Clone()})
}
