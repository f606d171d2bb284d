package schema

import (
	"errors"

	"github.com/signadot/docsync/ir"
)

// Validator validates a document, returning it possibly normalized.
// Implementations must be deterministic and must not modify their
// input.
type Validator interface {
	Validate(doc *ir.Node) (*ir.Node, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(doc *ir.Node) (*ir.Node, error)

func (f ValidatorFunc) Validate(doc *ir.Node) (*ir.Node, error) {
	return f(doc)
}

// Any accepts every document unchanged.
var Any Validator = ValidatorFunc(func(doc *ir.Node) (*ir.Node, error) {
	return doc, nil
})

// Check runs v on doc and attributes a failure to arg.  Errors which
// are not a *ValidationError are wrapped in one located at the root.
// A nil v is Any.
func Check(v Validator, arg string, doc *ir.Node) (*ir.Node, error) {
	if v == nil {
		v = Any
	}
	res, err := v.Validate(doc)
	if err == nil {
		if res == nil {
			res = doc
		}
		return res, nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		tagged := *ve
		tagged.Arg = arg
		return nil, &tagged
	}
	return nil, &ValidationError{Arg: arg, Msg: err.Error(), Err: err}
}
