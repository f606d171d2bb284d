// Package api defines the messages exchanged between a syncd server and
// its replicas.
package api

import (
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"
)

const (
	// MethodSnapshot is a call answered with a Snapshot.
	MethodSnapshot = "docsync.snapshot"
	// MethodPatch is a notification carrying a PatchEvent.
	MethodPatch = "docsync.patch"
)

// SnapshotParams are the parameters of MethodSnapshot.
type SnapshotParams struct {
	// Session is an optional client chosen name, used in server logs.
	Session string `json:"session,omitempty"`
}

// Snapshot is a full document at a sequence number.
type Snapshot struct {
	Seq int64    `json:"seq"`
	Doc *ir.Node `json:"doc"`
}

// PatchEvent is the operation sequence turning the document at Seq-1
// into the document at Seq.
type PatchEvent struct {
	Seq   int64       `json:"seq"`
	Patch patch.Patch `json:"patch"`
}
