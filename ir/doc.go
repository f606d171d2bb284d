// Package ir provides the in-memory representation of documents.
//
// # Overview
//
// A document is a tree of [Node] values: null, boolean, number, string,
// object and array, which is exactly what JSON can represent.  The IR
// is the common currency of the diff and patch engines, the schema
// validators and the transport.
//
// # Node Structure
//
// The IR works as a recursive tagged union structure, where values are
// placed in fields depending on the node type:
//
//   - NullType: no value
//   - BoolType: Bool
//   - NumberType: Number holds the literal, and Int64 or Float64 the value
//   - StringType: String
//   - ArrayType: Values
//   - ObjectType: Fields[i] is the key of Values[i]
//
// # Objects
//
// Object keys are unique and kept in document order, so that encoding
// and diffing are deterministic for identical inputs.  Decoding a
// document with repeated keys keeps the first position and the last
// value of the key.
//
// # Copies and Equality
//
// [Node.Clone] is an explicit recursive copy; nodes never share children
// after a clone.  [Equal] is type sensitive deep equality.
//
// # JSON
//
// [Node.MarshalJSON] and [Node.UnmarshalJSON] use the plain JSON form of
// the document, preserving key order:
//
//	node, err := ir.FromJSON([]byte(`{"b": 1, "a": [true, null]}`))
//	d, err := node.MarshalJSON() // {"b":1,"a":[true,null]}
package ir
