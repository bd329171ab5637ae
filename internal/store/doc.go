// Package store provides the durable account file behind the ledger.
//
// The file is a flat array of ledger.RecordSize records with no header.
// Record order is insertion order, compacted on delete; the account id is
// the only stable identifier.
//
// # Update protocol
//
//   - Scan reads records by absolute offset, so every scan starts from the
//     beginning and leaves no shared cursor behind.
//   - Append writes at the last record boundary and fsyncs.
//   - UpdateField rewrites each matching record in place at its own offset,
//     full width, then fsyncs.
//   - DeleteByID rebuilds the file without the record into a temp file in the
//     same directory and replaces the original with a single rename.
//
// A short trailing record (torn write) ends a scan and is overwritten by the
// next Append.
//
// The store assumes a single writer. Uniqueness of ids on Append is the
// caller's check-then-act responsibility; duplicate ids in a corrupted file
// are not defended against.
package store
