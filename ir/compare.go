package ir

import (
	"math"
	"math/big"
	"strconv"
)

// Equal reports whether a and b are deeply equal documents.
//
// Equality is type sensitive: the string "10" never equals the number
// 10.  Numbers compare by value, so 1 equals 1.0.  Object members are
// compared irrespective of key order; array elements by position.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		return numbersEqual(a, b)
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			j := b.FieldIndex(f)
			if j == -1 {
				return false
			}
			if !Equal(a.Values[i], b.Values[j]) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b *Node) bool {
	if a.Int64 != nil && b.Int64 != nil {
		return *a.Int64 == *b.Int64
	}
	fa, okA := a.Float()
	fb, okB := b.Float()
	if !okA || !okB {
		return a.Number == b.Number
	}
	if fa != fb {
		return false
	}
	// distinct values may round to the same float64, as 2^53+1 and
	// 2^53+0.5 do.
	ra, okA := a.exact()
	rb, okB := b.exact()
	if !okA || !okB {
		return true
	}
	return ra.Cmp(rb) == 0
}

// exact returns the exact value of a number node.  The literal is used
// when it agrees with the parsed value.
func (y *Node) exact() (*big.Rat, bool) {
	switch {
	case y.Int64 != nil:
		return new(big.Rat).SetInt64(*y.Int64), true
	case y.Float64 != nil:
		if y.Number != "" {
			if f, err := strconv.ParseFloat(y.Number, 64); err == nil && f == *y.Float64 {
				if r, ok := new(big.Rat).SetString(y.Number); ok {
					return r, true
				}
			}
		}
		if math.IsInf(*y.Float64, 0) || math.IsNaN(*y.Float64) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(*y.Float64), true
	case y.Number != "":
		return new(big.Rat).SetString(y.Number)
	}
	return nil, false
}

// Float returns the numeric value of a number node as a float64.
func (y *Node) Float() (float64, bool) {
	if y.Type != NumberType {
		return 0, false
	}
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
