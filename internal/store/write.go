package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/roach88/foxvault/internal/ledger"
)

// Append writes a at the end of the file and fsyncs before returning.
// The caller must already have checked that a.ID is unused.
func (s *Store) Append(a ledger.Account) error {
	n, err := s.Count()
	if err != nil {
		return err
	}

	rec, err := a.MarshalBinary()
	if err != nil {
		return ioError("encode", s.path, err)
	}

	// Writing at the record boundary overwrites any torn trailing record.
	off := int64(n) * ledger.RecordSize
	if _, err := s.f.WriteAt(rec, off); err != nil {
		return ioError("append", s.path, err)
	}
	if err := s.sync("append"); err != nil {
		return err
	}

	s.log.Debug().Uint16("id", a.ID).Int64("offset", off).Msg("record appended")
	return nil
}

// Mutator modifies an in-memory record before it is rewritten.
type Mutator func(*ledger.Account)

// UpdateField rewrites every record whose id matches after applying mutate,
// each at its own offset, and fsyncs. It returns the last rewritten record
// and whether any record matched. No match leaves the file untouched.
// The mutator cannot change a record's id.
func (s *Store) UpdateField(id uint16, mutate Mutator) (ledger.Account, bool, error) {
	var (
		updated ledger.Account
		found   bool
	)

	for off, p := range s.records() {
		if p.err != nil {
			return ledger.Account{}, false, p.err
		}
		if p.ID != id {
			continue
		}

		a := p.Account
		mutate(&a)
		a.ID = id

		rec, err := a.MarshalBinary()
		if err != nil {
			return ledger.Account{}, false, ioError("encode", s.path, err)
		}
		if _, err := s.f.WriteAt(rec, off); err != nil {
			return ledger.Account{}, false, ioError("update", s.path, err)
		}
		if err := s.sync("update"); err != nil {
			return ledger.Account{}, false, err
		}

		updated, found = a, true
	}

	if !found {
		s.log.Warn().Uint16("id", id).Msg("update for missing account ignored")
	}
	return updated, found, nil
}

// DeleteByID removes the record with id by rebuilding the file without it.
// The rebuild is written to a temp file next to the account file, fsynced,
// and renamed over the original; the store handle is then reopened.
// It returns ErrNotFound, leaving the file untouched, if no record matches.
// A failure to reopen leaves the Store closed and must be treated as fatal.
func (s *Store) DeleteByID(id uint16) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return ioError("create temp", dir, err)
	}
	tmpPath := tmp.Name()
	discard := func(cause error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return cause
	}

	removed, kept := 0, 0
	for a, err := range s.Scan() {
		if err != nil {
			return discard(err)
		}
		if a.ID == id {
			removed++
			continue
		}
		rec, err := a.MarshalBinary()
		if err != nil {
			return discard(ioError("encode", tmpPath, err))
		}
		if _, err := tmp.Write(rec); err != nil {
			return discard(ioError("write temp", tmpPath, err))
		}
		kept++
	}
	if removed == 0 {
		return discard(ErrNotFound)
	}

	if err := tmp.Sync(); err != nil {
		return discard(ioError("sync temp", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return ioError("close temp", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return ioError("chmod temp", tmpPath, err)
	}

	if err := s.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		if reopenErr := s.reopen(); reopenErr != nil {
			return errors.Join(ioError("replace", s.path, err), reopenErr)
		}
		return ioError("replace", s.path, err)
	}
	syncDir(dir)

	if err := s.reopen(); err != nil {
		return err
	}

	s.log.Info().Uint16("id", id).Int("kept", kept).Msg("account file rebuilt without record")
	return nil
}

func (s *Store) reopen() error {
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return ioError("reopen", s.path, err)
	}
	s.f = f
	return nil
}

// syncDir makes the rename durable where the platform allows opening a
// directory for sync. Failure only widens the crash window.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
