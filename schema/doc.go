// Package schema provides document validation.
//
// The rest of the module treats validation as an opaque capability,
// the Validator interface: a validator either accepts a document,
// returning it possibly normalized, or rejects it with a
// *ValidationError naming the offending location.
//
// # Declarative schemas
//
// Schema is a concrete Validator described by a JSON or YAML document
// using a small subset of JSON Schema vocabulary:
//
//	name: todo-list
//	type: object
//	required: [items]
//	properties:
//	  items:
//	    type: array
//	    items:
//	      ref: item
//	define:
//	  item:
//	    type: object
//	    required: [title]
//	    properties:
//	      title: {type: string, minLength: 1}
//	      done: {type: boolean, default: false}
//	      count: {type: integer, minimum: 0}
//	    assert: 'value.count == nil || value.count < 100'
//
// Supported keywords are type, enum, const, properties, required,
// additionalProperties, items, minItems, maxItems, minLength, maxLength,
// minimum, maximum, default, assert, ref and define.
//
// An assert is an expression evaluated with github.com/expr-lang/expr
// against the variable value, the validated node as plain Go data; it
// must yield a boolean.
//
// A ref names a definition in the define section of the enclosing
// schemas, or otherwise a schema registered with Register.
//
// Defaults are the only normalization: a missing property whose schema
// has a default is filled in on the returned copy.  The input is never
// modified.
//
// # Related Packages
//
//   - github.com/signadot/docsync - validating Diff and Apply
//   - github.com/signadot/docsync/state - validating state holder
package schema
