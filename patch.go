package docsync

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/schema"
)

// Apply validates original, applies p to a copy of it and validates the
// result.  On any failure no document is returned and original is
// unchanged.
func Apply(v schema.Validator, original *ir.Node, p patch.Patch) (*ir.Node, error) {
	doc, err := schema.Check(v, ArgOriginal, original)
	if err != nil {
		return nil, err
	}
	res, err := patch.Apply(doc, p)
	if err != nil {
		return nil, err
	}
	return schema.Check(v, ArgResult, res)
}

// ValidatePatchSyntax checks that value is a well formed operation
// sequence and returns it.
func ValidatePatchSyntax(value *ir.Node) (patch.Patch, error) {
	return patch.FromNode(value)
}
