package patch

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/pointer"
)

// Kind is the literal tag of an operation on the wire.
type Kind string

const (
	KindAdd     Kind = "add"
	KindRemove  Kind = "remove"
	KindReplace Kind = "replace"
	KindMove    Kind = "move"
	KindCopy    Kind = "copy"
	KindTest    Kind = "test"
)

// Kinds lists every operation kind.
func Kinds() []Kind {
	return []Kind{KindAdd, KindRemove, KindReplace, KindMove, KindCopy, KindTest}
}

func (k Kind) Valid() bool {
	switch k {
	case KindAdd, KindRemove, KindReplace, KindMove, KindCopy, KindTest:
		return true
	}
	return false
}

// Op is a single patch operation.  The set of operations is closed: it
// is one of Add, Remove, Replace, Move, Copy or Test, each carrying
// exactly the fields its kind requires.
type Op interface {
	Kind() Kind
	// Target is the location the operation writes or tests.
	Target() pointer.Pointer
	String() string

	apply(doc *ir.Node) (*ir.Node, error)
}

type Add struct {
	Path  pointer.Pointer
	Value *ir.Node
}

type Remove struct {
	Path pointer.Pointer
}

type Replace struct {
	Path  pointer.Pointer
	Value *ir.Node
}

type Move struct {
	From pointer.Pointer
	Path pointer.Pointer
}

type Copy struct {
	From pointer.Pointer
	Path pointer.Pointer
}

type Test struct {
	Path  pointer.Pointer
	Value *ir.Node
}

func (Add) Kind() Kind     { return KindAdd }
func (Remove) Kind() Kind  { return KindRemove }
func (Replace) Kind() Kind { return KindReplace }
func (Move) Kind() Kind    { return KindMove }
func (Copy) Kind() Kind    { return KindCopy }
func (Test) Kind() Kind    { return KindTest }

func (o Add) Target() pointer.Pointer     { return o.Path }
func (o Remove) Target() pointer.Pointer  { return o.Path }
func (o Replace) Target() pointer.Pointer { return o.Path }
func (o Move) Target() pointer.Pointer    { return o.Path }
func (o Copy) Target() pointer.Pointer    { return o.Path }
func (o Test) Target() pointer.Pointer    { return o.Path }

func (o Add) String() string     { return opString(o) }
func (o Remove) String() string  { return opString(o) }
func (o Replace) String() string { return opString(o) }
func (o Move) String() string    { return opString(o) }
func (o Copy) String() string    { return opString(o) }
func (o Test) String() string    { return opString(o) }

// ToNode returns the wire form of op as a document node.  Members are
// ordered op, from, path, value.
func ToNode(op Op) *ir.Node {
	kvs := []ir.KeyVal{{Key: "op", Val: ir.FromString(string(op.Kind()))}}
	switch o := op.(type) {
	case Move:
		kvs = append(kvs, ir.KeyVal{Key: "from", Val: ir.FromString(o.From.String())})
	case Copy:
		kvs = append(kvs, ir.KeyVal{Key: "from", Val: ir.FromString(o.From.String())})
	}
	kvs = append(kvs, ir.KeyVal{Key: "path", Val: ir.FromString(op.Target().String())})
	switch o := op.(type) {
	case Add:
		kvs = append(kvs, ir.KeyVal{Key: "value", Val: valueOrNull(o.Value)})
	case Replace:
		kvs = append(kvs, ir.KeyVal{Key: "value", Val: valueOrNull(o.Value)})
	case Test:
		kvs = append(kvs, ir.KeyVal{Key: "value", Val: valueOrNull(o.Value)})
	}
	return ir.FromKeyVals(kvs)
}

func valueOrNull(v *ir.Node) *ir.Node {
	if v == nil {
		return ir.Null()
	}
	return v
}

func opString(op Op) string {
	d, err := ToNode(op).MarshalJSON()
	if err != nil {
		return string(op.Kind()) + " " + op.Target().String()
	}
	return string(d)
}
