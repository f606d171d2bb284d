// Package libdiff computes patches between documents.
//
// # Usage
//
//	// Compute the operations turning oldNode into newNode
//	p := libdiff.Diff(oldNode, newNode)
//
//	// Applying them reconstructs newNode
//	res, err := patch.Apply(oldNode, p)
//
// Diffs only contain add, remove and replace operations.  Values which
// move within the document are represented as an independent remove and
// add.  Changes are reported at the deepest differing location rather
// than as a replacement of a whole subtree.
//
// # Related Packages
//
//   - github.com/signadot/docsync/ir - document representation
//   - github.com/signadot/docsync/patch - operations and application
package libdiff
