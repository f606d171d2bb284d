// Package patch implements JSON Patch (RFC 6902) operations over
// [ir.Node] documents.
//
// # Operations
//
// An operation is one of [Add], [Remove], [Replace], [Move], [Copy] and
// [Test].  Each is its own type carrying exactly the fields its kind
// requires; a [Patch] is an ordered sequence of them.
//
// # Wire Form
//
// On the wire a patch is the JSON array
//
//	[{"op": "add", "path": "/a/0", "value": 1}, {"op": "move", "from": "/b", "path": "/c"}]
//
// [Decode] and [FromNode] validate that form, reporting the first
// violation as a [*SyntaxError].  Unknown members are ignored.
//
// # Application
//
// [Apply] works on a deep copy of its input and either returns the
// fully patched document or an [*Error] whose kind (ErrPathNotFound,
// ErrTypeMismatch, ErrTestFailed, ...) can be checked with errors.Is.
package patch
