package docsync

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/libdiff"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/schema"
)

// Argument names reported in a *schema.ValidationError.
const (
	ArgOriginal = "original"
	ArgUpdated  = "updated"
	ArgResult   = "result"
)

// Diff validates original and updated with v, then returns the
// operations which transform the validated original into the validated
// updated.  The result is empty when they are equal.  A nil v accepts
// every document.
func Diff(v schema.Validator, original, updated *ir.Node) (patch.Patch, error) {
	from, err := schema.Check(v, ArgOriginal, original)
	if err != nil {
		return nil, err
	}
	to, err := schema.Check(v, ArgUpdated, updated)
	if err != nil {
		return nil, err
	}
	return libdiff.Diff(from, to), nil
}
