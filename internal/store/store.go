package store

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/roach88/foxvault/internal/ledger"
)

// Store owns the account file handle for the lifetime of a session.
type Store struct {
	path     string
	f        *os.File
	log      zerolog.Logger
	readOnly bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "store").Logger()
	}
}

// ReadOnly opens an existing file for reading only. The file is neither
// created nor seeded, and every write fails with an *IOError.
func ReadOnly() Option {
	return func(s *Store) {
		s.readOnly = true
	}
}

// Open opens the account file at path for read/write, creating it if it
// does not exist. A newly created file, or an existing file that holds no
// complete record, is seeded with the administrator record.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	if s.readOnly {
		f, err := os.Open(path)
		if err != nil {
			return nil, ioError("open", path, err)
		}
		s.f = f
		return s, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info().Str("path", path).Msg("creating account file")
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	}
	if err != nil {
		return nil, ioError("open", path, err)
	}
	s.f = f

	n, err := s.Count()
	if err != nil {
		f.Close()
		return nil, err
	}
	if n == 0 {
		if err := s.Append(ledger.Admin()); err != nil {
			f.Close()
			return nil, err
		}
		s.log.Info().Uint16("id", ledger.AdminID).Msg("seeded administrator record")
	}

	s.log.Debug().Str("path", path).Int("records", max(n, 1)).Msg("account file open")
	return s, nil
}

// Path returns the account file path.
func (s *Store) Path() string {
	return s.path
}

// Close syncs and closes the account file. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil

	var syncErr error
	if !s.readOnly {
		syncErr = f.Sync()
	}
	closeErr := f.Close()
	if err := errors.Join(syncErr, closeErr); err != nil {
		return ioError("close", s.path, err)
	}
	return nil
}

// Count returns the number of complete records in the file.
func (s *Store) Count() (int, error) {
	if s.f == nil {
		return 0, ioError("stat", s.path, os.ErrClosed)
	}
	fi, err := s.f.Stat()
	if err != nil {
		return 0, ioError("stat", s.path, err)
	}
	return int(fi.Size() / ledger.RecordSize), nil
}

// sync flushes the file to durable storage.
func (s *Store) sync(op string) error {
	if err := s.f.Sync(); err != nil {
		return ioError(op, s.path, err)
	}
	return nil
}
