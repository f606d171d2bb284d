// Package syncd carries operation sequences from one authoritative
// document to any number of replicas over JSON-RPC 2.0 on TCP.
//
// # Protocol
//
// A replica connects and calls docsync.snapshot, receiving the current
// document with its sequence number.  From connection time on, the
// server sends a docsync.patch notification for every change, carrying
// the operation sequence and the sequence number it produces.  Sequence
// numbers grow by one per change.
//
// A replica applies a notification only when its number follows the
// replica's own.  Older notifications are ignored.  A gap, or a patch
// which fails to apply, makes the replica fetch a fresh snapshot.
//
// # Server
//
// Start the server with:
//
//	docsync serve -c config.yaml doc.json
//
// # Related Packages
//
//   - [api] - method names and message types
//   - [server] - TCP server and publisher
//   - [replica] - client side replica
//   - [storage] - persisted snapshot of the served document
package syncd
