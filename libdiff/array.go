package libdiff

import (
	"unicode/utf8"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/pointer"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// maxClasses bounds the number of distinct element values DiffArray
// can encode as runes.
const maxClasses = utf8.MaxRune - 0x800

// DiffArray compares two arrays found at at by aligning their elements.
//
//  1. each distinct element value is given a rune
//  2. the two rune sequences are diffed
//  3. equal runs produce nothing
//  4. a deleted run followed by an inserted run is compared pairwise
//     with df, in place, as far as both runs go
//  5. remaining deletions are removed in descending index order and
//     remaining insertions are added in ascending index order
//
// Indices in the result refer to the array as it is being patched, so
// inserting an element in the middle produces a single add.
func DiffArray(dst patch.Patch, at pointer.Pointer, from, to *ir.Node, df DiffFunc) patch.Patch {
	cls := &classes{}
	fromRunes, ok := cls.runes(from.Values)
	if !ok {
		return DiffArrayByIndex(dst, at, from, to, df)
	}
	toRunes, ok := cls.runes(to.Values)
	if !ok {
		return DiffArrayByIndex(dst, at, from, to, df)
	}
	dmp := diffpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(fromRunes, toRunes, false)

	fi, ti, ri := 0, 0, 0
	for i := 0; i < len(diffs); {
		if diffs[i].Type == diffpatch.DiffEqual {
			n := utf8.RuneCountInString(diffs[i].Text)
			fi, ti, ri = fi+n, ti+n, ri+n
			i++
			continue
		}
		dels, ins := 0, 0
		for ; i < len(diffs) && diffs[i].Type != diffpatch.DiffEqual; i++ {
			n := utf8.RuneCountInString(diffs[i].Text)
			if diffs[i].Type == diffpatch.DiffDelete {
				dels += n
			} else {
				ins += n
			}
		}
		pairs := min(dels, ins)
		for range pairs {
			dst = df(dst, at.AppendIndex(ri), from.Values[fi], to.Values[ti])
			fi, ti, ri = fi+1, ti+1, ri+1
		}
		for j := dels - pairs - 1; j >= 0; j-- {
			dst = MakeRemove(dst, at.AppendIndex(ri+j))
		}
		fi += dels - pairs
		for range ins - pairs {
			dst = MakeAdd(dst, at.AppendIndex(ri), to.Values[ti])
			ti, ri = ti+1, ri+1
		}
	}
	return dst
}

// DiffArrayByIndex compares two arrays element by element over their
// shared length, then removes the surplus of from in descending index
// order or adds the surplus of to in ascending index order.
func DiffArrayByIndex(dst patch.Patch, at pointer.Pointer, from, to *ir.Node, df DiffFunc) patch.Patch {
	n := min(len(from.Values), len(to.Values))
	for i := range n {
		dst = df(dst, at.AppendIndex(i), from.Values[i], to.Values[i])
	}
	for i := len(from.Values) - 1; i >= n; i-- {
		dst = MakeRemove(dst, at.AppendIndex(i))
	}
	for i := n; i < len(to.Values); i++ {
		dst = MakeAdd(dst, at.AppendIndex(i), to.Values[i])
	}
	return dst
}

// classes assigns one rune per distinct value, skipping the surrogate
// range so that every rune survives conversion to a string.
type classes struct {
	byHash map[uint64][]class
	n      int
}

type class struct {
	node *ir.Node
	r    rune
}

func (c *classes) runes(vals []*ir.Node) ([]rune, bool) {
	if c.byHash == nil {
		c.byHash = map[uint64][]class{}
	}
	res := make([]rune, len(vals))
outer:
	for i, v := range vals {
		h := v.Hash()
		for _, cl := range c.byHash[h] {
			if ir.Equal(cl.node, v) {
				res[i] = cl.r
				continue outer
			}
		}
		if c.n >= maxClasses {
			return nil, false
		}
		r := rune(c.n)
		if r >= 0xD800 {
			r += 0x800
		}
		c.n++
		c.byHash[h] = append(c.byHash[h], class{node: v, r: r})
		res[i] = r
	}
	return res, true
}
