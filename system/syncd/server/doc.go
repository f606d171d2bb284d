// Package server serves one authoritative document to syncd replicas.
//
// Changes are made through [Server.Publish] or [Server.Apply].  Each
// change which alters the document gets the next sequence number, is
// saved to the configured store, and is sent to every connected
// session.  A session whose queue of notifications fills up is closed,
// which ends its replica; a new replica starts over from a snapshot.
package server
