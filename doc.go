// Package docsync computes and applies JSON Patch operation sequences
// between documents constrained by a schema.
//
// # Usage
//
//	// Operations turning original into updated
//	p, err := docsync.Diff(v, original, updated)
//
//	// Apply them elsewhere; original is never modified
//	res, err := docsync.Apply(v, original, p)
//
//	// Check operations from an untrusted producer
//	p, err := docsync.ValidatePatchSyntax(node)
//
// Both documents given to Diff and the document given to Apply are
// checked with the validator first, and the result of Apply is checked
// before it is returned.  Failures are a *schema.ValidationError
// naming the argument at fault.  Patches that cannot be applied fail
// with a *patch.Error, malformed patches with a *patch.SyntaxError.
//
// # Related Packages
//
//   - github.com/signadot/docsync/ir - document representation
//   - github.com/signadot/docsync/patch - operations
//   - github.com/signadot/docsync/libdiff - structural diff
//   - github.com/signadot/docsync/schema - validation
//   - github.com/signadot/docsync/state - state holder built on this package
package docsync
