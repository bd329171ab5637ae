package store

import (
	"errors"
	"io"
	"iter"
	"os"

	"github.com/roach88/foxvault/internal/ledger"
)

// Scan returns a lazy sequence over all records in file order. Every call to
// the returned sequence starts again from the first record. A short trailing
// record ends the sequence without error. A read failure yields a zero
// Account with an *IOError and ends the sequence.
func (s *Store) Scan() iter.Seq2[ledger.Account, error] {
	return func(yield func(ledger.Account, error) bool) {
		for _, a := range s.records() {
			if !yield(a.Account, a.err) {
				return
			}
		}
	}
}

// ScanAll collects every record in file order.
func (s *Store) ScanAll() ([]ledger.Account, error) {
	var out []ledger.Account
	for a, err := range s.Scan() {
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// FindByID returns the first record whose id matches, or ErrNotFound.
func (s *Store) FindByID(id uint16) (ledger.Account, error) {
	for a, err := range s.Scan() {
		if err != nil {
			return ledger.Account{}, err
		}
		if a.ID == id {
			return a, nil
		}
	}
	return ledger.Account{}, ErrNotFound
}

// Exists reports whether a record with id is present.
func (s *Store) Exists(id uint16) (bool, error) {
	_, err := s.FindByID(id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// positioned is a decoded record together with its byte offset.
type positioned struct {
	ledger.Account
	off int64
	err error
}

// records walks the file by absolute offset.
func (s *Store) records() iter.Seq2[int64, positioned] {
	return func(yield func(int64, positioned) bool) {
		if s.f == nil {
			yield(0, positioned{err: ioError("read", s.path, os.ErrClosed)})
			return
		}

		buf := make([]byte, ledger.RecordSize)
		for off := int64(0); ; off += ledger.RecordSize {
			n, err := s.f.ReadAt(buf, off)
			if n < ledger.RecordSize {
				if err != nil && !errors.Is(err, io.EOF) {
					yield(off, positioned{off: off, err: ioError("read", s.path, err)})
				}
				return
			}

			a, decErr := ledger.Decode(buf)
			if decErr != nil {
				return
			}
			if !yield(off, positioned{Account: a, off: off}) {
				return
			}
		}
	}
}
