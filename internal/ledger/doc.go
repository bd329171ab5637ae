// Package ledger defines the Account record and its on-disk encoding.
//
// The account file is a flat array of fixed-width records with no header.
// Every record is RecordSize bytes, little-endian:
//
//	offset  size  field
//	0       2     id       uint16
//	2       50    name     raw bytes, NUL-padded, at most 49 meaningful bytes
//	52      2     pin      uint16
//	54      8     balance  IEEE-754 float64
//
// The layout is explicit so files stay bit-exact across builds and platforms.
// This package imports nothing internal; store, session and app build on it.
package ledger
