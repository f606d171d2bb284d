package patch

import (
	"github.com/signadot/docsync/ir"
)

// Patch is an ordered sequence of operations, applied strictly in
// order.  A nil or empty Patch is a valid no-op.
type Patch []Op

// Node returns the wire form of the patch: an array of operation
// objects.
func (p Patch) Node() *ir.Node {
	vals := make([]*ir.Node, len(p))
	for i, op := range p {
		vals[i] = ToNode(op)
	}
	return ir.FromSlice(vals)
}

func (p Patch) MarshalJSON() ([]byte, error) {
	return p.Node().MarshalJSON()
}

// UnmarshalJSON decodes and validates the wire form.  Unknown members of
// operation objects are ignored.
func (p *Patch) UnmarshalJSON(d []byte) error {
	res, err := Decode(d)
	if err != nil {
		return err
	}
	*p = res
	return nil
}

func (p Patch) String() string {
	d, err := p.MarshalJSON()
	if err != nil {
		return "<patch: " + err.Error() + ">"
	}
	return string(d)
}
