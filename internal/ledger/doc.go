// Package ledger holds the expense ledger engine: the record store and the
// budget report generator.
//
// The store keeps the authoritative list in memory. Every mutation runs to
// completion under one lock and then hands a full snapshot to a background
// syncer, which writes snapshots to the injected persister strictly in
// mutation order. Reads never wait for persistence.
package ledger
