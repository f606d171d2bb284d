// Package state holds an authoritative document and mediates every
// change to it through diffs and patches.
//
// A Holder is created from a validator and an initial document.  A
// producer changes the document with MutateAndDiff, which returns the
// operations describing the change; a consumer feeds those operations
// to its own Holder with ApplyIncoming.  As long as every operation
// sequence reaches the consumer once and in order, both Holders hold
// equal documents.  Nothing here detects a lost or reordered sequence;
// see system/syncd for a transport which does.
//
// Documents never leave or enter a Holder by reference: mutators work
// on a private copy and Snapshot returns a copy.
package state
