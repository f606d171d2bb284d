package state

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/signadot/docsync"
	"github.com/signadot/docsync/debug"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/libdiff"
	"github.com/signadot/docsync/patch"
	"github.com/signadot/docsync/schema"
)

// ArgInitial names the initial document in a *schema.ValidationError.
const ArgInitial = "initial"

// Mutator changes a private copy of the current document.  It may
// modify its argument and return nil, or return a new document.
type Mutator func(doc *ir.Node) (*ir.Node, error)

type Option func(*Holder)

func WithLogger(l *slog.Logger) Option {
	return func(h *Holder) { h.log = l }
}

// Holder owns one document.  Its methods may be called from several
// goroutines; each call completes before the next observes the
// document.
type Holder struct {
	mu  sync.Mutex
	v   schema.Validator
	doc *ir.Node
	log *slog.Logger
}

// New validates initial with v and returns a Holder owning a copy of
// it.  A nil v accepts every document.
func New(v schema.Validator, initial *ir.Node, opts ...Option) (*Holder, error) {
	if v == nil {
		v = schema.Any
	}
	doc, err := schema.Check(v, ArgInitial, initial)
	if err != nil {
		return nil, err
	}
	h := &Holder{v: v, doc: doc.Clone(), log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// MutateAndDiff runs m on a copy of the current document, validates the
// outcome, commits it and returns the operations from the previous
// document to the new one.  On error nothing is committed.
func (h *Holder) MutateAndDiff(m Mutator) (patch.Patch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	work := h.doc.Clone()
	res, err := m(work)
	if err != nil {
		return nil, fmt.Errorf("mutator: %w", err)
	}
	if res == nil {
		res = work
	}
	updated, err := schema.Check(h.v, docsync.ArgUpdated, res)
	if err != nil {
		h.log.Debug("rejected mutation", "error", err)
		return nil, err
	}
	p := libdiff.Diff(h.doc, updated)
	if len(p) != 0 {
		h.doc = updated.Clone()
	}
	if debug.State() {
		debug.Logf("state: mutate committed %d ops: %s\n", len(p), p)
	}
	h.log.Debug("mutated", "ops", len(p))
	return p, nil
}

// ApplyIncoming applies p to the current document and commits the
// validated result.  On error the document is unchanged.
func (h *Holder) ApplyIncoming(p patch.Patch) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := docsync.Apply(h.v, h.doc, p)
	if err != nil {
		h.log.Debug("rejected patch", "ops", len(p), "error", err)
		return err
	}
	h.doc = res
	if debug.State() {
		debug.Logf("state: applied %s\n", p)
	}
	h.log.Debug("applied", "ops", len(p))
	return nil
}

// Reset validates doc and commits a copy of it in place of the current
// document, as when a replica receives a full snapshot.
func (h *Holder) Reset(doc *ir.Node) error {
	res, err := schema.Check(h.v, docsync.ArgUpdated, doc)
	if err != nil {
		return err
	}
	res = res.Clone()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = res
	h.log.Debug("reset")
	return nil
}

// Snapshot returns a copy of the current document.
func (h *Holder) Snapshot() *ir.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc.Clone()
}

// Follow commits each document of src in turn and yields the non empty
// operation sequences this produces.  Errors from src or from
// validation are yielded and iteration continues with the next
// document.  Nothing happens until the result is ranged over.
func (h *Holder) Follow(src iter.Seq2[*ir.Node, error]) iter.Seq2[patch.Patch, error] {
	return func(yield func(patch.Patch, error) bool) {
		for doc, err := range src {
			var p patch.Patch
			if err == nil {
				p, err = h.MutateAndDiff(func(*ir.Node) (*ir.Node, error) {
					return doc, nil
				})
			}
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if len(p) == 0 {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}
