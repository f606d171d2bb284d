// Package storage persists the document served by a syncd server so
// that a restarted server resumes at the same sequence number.
//
// Only the latest snapshot is kept; no operation history is stored.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/signadot/docsync/ir"
)

// Snapshot represents the served document at a sequence number.
type Snapshot struct {
	Seq       int64
	Timestamp string
	State     *ir.Node
}

// Store reads and writes a snapshot file.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored snapshot, or nil if there is none yet.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	node, err := ir.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot file %s: %w", s.path, err)
	}
	seqNode, state := ir.Get(node, "seq"), ir.Get(node, "state")
	if seqNode == nil || seqNode.Type != ir.NumberType || seqNode.Int64 == nil || state == nil {
		return nil, fmt.Errorf("invalid snapshot file %s: missing seq or state", s.path)
	}
	snap := &Snapshot{Seq: *seqNode.Int64, State: state}
	if ts := ir.Get(node, "timestamp"); ts != nil && ts.Type == ir.StringType {
		snap.Timestamp = ts.String
	}
	return snap, nil
}

// Save writes a snapshot file atomically.
func (s *Store) Save(seq int64, state *ir.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339)
	file := ir.FromKeyVals([]ir.KeyVal{
		{Key: "seq", Val: ir.FromInt(seq)},
		{Key: "timestamp", Val: ir.FromString(timestamp)},
		{Key: "state", Val: state},
	})
	data, err := file.MarshalJSON()
	if err != nil {
		return err
	}

	// Write to temp file first, then rename atomically
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}
