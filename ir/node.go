package ir

import (
	"strconv"
)

// Node is a single value in a document tree.
//
// For ObjectType nodes, Fields[i] is the key for the value at Values[i].
// Keys are unique and kept in document order.
type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

// Clone returns a structurally independent copy of y.  Clone of a nil
// node is nil.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Number = y.Number
	dst.Float64 = nil
	dst.Int64 = nil
	dst.Fields = nil
	dst.Values = nil
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	switch y.Type {
	case ObjectType:
		dst.Fields = make([]string, len(y.Fields))
		copy(dst.Fields, y.Fields)
		fallthrough
	case ArrayType:
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dst.Values[i] = yv.Clone()
		}
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Int64:  &v,
		Number: strconv.FormatInt(v, 10),
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
		Number:  strconv.FormatFloat(f, 'g', -1, 64),
	}
}

// FromNumber builds a number node from its literal text.  The literal is
// kept verbatim; Int64 is set when it is an integer fitting in 64 bits,
// otherwise Float64 is set.
func FromNumber(lit string) (*Node, error) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return &Node{Type: NumberType, Number: lit, Int64: &i}, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, err
	}
	return &Node{Type: NumberType, Number: lit, Float64: &f}, nil
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// KeyVal is an object member used to build objects in a given key order.
type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object in the order of kvs.  A repeated key
// keeps its first position and its last value.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]string, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, len(ySlice)),
	}
	copy(res.Values, ySlice)
	return res
}

// ToMap returns the members of an object keyed by name, or nil if y is
// not an object.
func ToMap(y *Node) map[string]*Node {
	if y.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(y.Fields))
	for i, f := range y.Fields {
		res[f] = y.Values[i]
	}
	return res
}

// FieldIndex returns the position of key in an object, or -1.
func (y *Node) FieldIndex(key string) int {
	for i, f := range y.Fields {
		if f == key {
			return i
		}
	}
	return -1
}

func Get(y *Node, field string) *Node {
	i := y.FieldIndex(field)
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// Set sets key to val in an object, overwriting in place or appending.
func (y *Node) Set(key string, val *Node) {
	if i := y.FieldIndex(key); i != -1 {
		y.Values[i] = val
		return
	}
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
}

// Delete removes key from an object and returns the removed value, or
// nil if the key was absent.
func (y *Node) Delete(key string) *Node {
	i := y.FieldIndex(key)
	if i == -1 {
		return nil
	}
	v := y.Values[i]
	y.Fields = append(y.Fields[:i], y.Fields[i+1:]...)
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	return v
}

// Insert inserts val at index i of an array, shifting later elements
// right.  i must be in [0, len(y.Values)].
func (y *Node) Insert(i int, val *Node) {
	y.Values = append(y.Values, nil)
	copy(y.Values[i+1:], y.Values[i:])
	y.Values[i] = val
}

// RemoveAt removes and returns the element at index i of an array.
func (y *Node) RemoveAt(i int) *Node {
	v := y.Values[i]
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	return v
}
