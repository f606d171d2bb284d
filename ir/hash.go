package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit structural hash of the node.  Nodes which are
// Equal have the same Hash within a process.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}
	var h maphash.Hash
	h.SetSeed(hashSeed)
	n.writeHash(&h)
	return h.Sum64()
}

func (n *Node) writeHash(h *maphash.Hash) {
	var b [8]byte
	h.WriteByte(byte(n.Type))
	switch n.Type {
	case NullType:
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case NumberType:
		// hash by value so that 1 and 1.0 collide, as Equal requires.
		f, ok := n.Float()
		if !ok {
			h.WriteString(n.Number)
			return
		}
		if f == 0 {
			f = 0 // normalize -0
		}
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	case StringType:
		h.WriteString(n.String)
	case ArrayType:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case ObjectType:
		// members are combined order independently.
		var sum uint64
		for i, field := range n.Fields {
			var fh maphash.Hash
			fh.SetSeed(hashSeed)
			fh.WriteString(field)
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			fh.Write(b[:])
			sum += fh.Sum64()
		}
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	}
}
