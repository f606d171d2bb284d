package docsync

import (
	"github.com/signadot/docsync/ir"
)

// Match reports whether doc matches the pattern match.
//
// A null pattern matches anything.  An object pattern matches an object
// having at least its members, each matching.  An array pattern matches
// an array of the same length element by element.  Other patterns match
// equal values.
func Match(doc, match *ir.Node) bool {
	if match.Type == ir.NullType {
		return true
	}
	if doc.Type != match.Type {
		return false
	}
	switch match.Type {
	case ir.ObjectType:
		return matchObj(doc, match)
	case ir.ArrayType:
		return matchArray(doc, match)
	default:
		return ir.Equal(doc, match)
	}
}

func matchObj(doc, match *ir.Node) bool {
	for i, field := range match.Fields {
		dv := ir.Get(doc, field)
		if dv == nil || !Match(dv, match.Values[i]) {
			return false
		}
	}
	return true
}

func matchArray(doc, match *ir.Node) bool {
	if len(doc.Values) != len(match.Values) {
		return false
	}
	for i := range doc.Values {
		if !Match(doc.Values[i], match.Values[i]) {
			return false
		}
	}
	return true
}

// Trim filters a document to only include fields/values that are present in the match criteria.
// Objects keep the members named by the pattern, in document order.
// Arrays keep, for each pattern element, the first unused document
// element matching it, trimmed.
func Trim(match, doc *ir.Node) *ir.Node {
	switch {
	case match.Type == ir.ObjectType && doc.Type == ir.ObjectType:
		kvs := make([]ir.KeyVal, 0, len(match.Fields))
		for i, field := range doc.Fields {
			matchVal := ir.Get(match, field)
			if matchVal == nil {
				continue
			}
			kvs = append(kvs, ir.KeyVal{Key: field, Val: Trim(matchVal, doc.Values[i])})
		}
		return ir.FromKeyVals(kvs)
	case match.Type == ir.ArrayType && doc.Type == ir.ArrayType:
		res := make([]*ir.Node, 0, len(match.Values))
		used := make([]bool, len(doc.Values))
		for _, matchElem := range match.Values {
			for i, docElem := range doc.Values {
				if used[i] || !Match(docElem, matchElem) {
					continue
				}
				res = append(res, Trim(matchElem, docElem))
				used[i] = true
				break
			}
		}
		return ir.FromSlice(res)
	default:
		return doc.Clone()
	}
}
