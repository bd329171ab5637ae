// Package export writes a SQLite reporting snapshot of the account file.
//
// The snapshot is a read model: the record file stays the store of record
// and each export replaces the previous contents in one transaction.
package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"iter"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/roach88/foxvault/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Row is one exported account.
type Row struct {
	ID      uint16  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Admin   bool    `json:"admin"`
}

// Meta describes the last export written to a snapshot.
type Meta struct {
	Source     string    `json:"source"`
	ExportedAt time.Time `json:"exported_at"`
	Records    int       `json:"records"`
}

// Snapshot is an open reporting database.
type Snapshot struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithClock sets the source of the export timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Snapshot) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Snapshot) {
		s.log = l.With().Str("component", "export").Logger()
	}
}

// Open creates or opens the snapshot database at path and applies the schema.
func Open(path string, opts ...Option) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect snapshot %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Snapshot{db: db, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Snapshot) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// The snapshot is a single self-contained file, so rollback journaling is
// used instead of WAL.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("execute %q: %w", p, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply snapshot schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Write replaces the snapshot contents with accounts read from source.
// The first scan error aborts the export and leaves the previous contents.
func (s *Snapshot) Write(ctx context.Context, source string, accounts iter.Seq2[ledger.Account, error]) (Meta, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return Meta{}, fmt.Errorf("clear accounts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO accounts (id, name, balance, admin) VALUES (?, ?, ?, ?)")
	if err != nil {
		return Meta{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for a, err := range accounts {
		if err != nil {
			return Meta{}, err
		}
		if _, err := stmt.ExecContext(ctx, a.ID, a.Name, a.Balance, a.IsAdmin()); err != nil {
			return Meta{}, fmt.Errorf("insert account %d: %w", a.ID, err)
		}
		n++
	}

	meta := Meta{Source: source, ExportedAt: s.now().UTC().Truncate(time.Second), Records: n}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO export_meta (id, source, exported_at, records) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source = excluded.source,
		 exported_at = excluded.exported_at, records = excluded.records`,
		meta.Source, meta.ExportedAt.Format(time.RFC3339), meta.Records)
	if err != nil {
		return Meta{}, fmt.Errorf("write export meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Meta{}, fmt.Errorf("commit export: %w", err)
	}
	s.log.Info().Str("source", source).Int("records", n).Msg("snapshot written")
	return meta, nil
}

// Accounts returns the exported rows ordered by id.
func (s *Snapshot) Accounts(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, balance, admin FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Name, &r.Balance, &r.Admin); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Meta returns the metadata of the last export. ok is false if nothing was
// exported yet.
func (s *Snapshot) Meta(ctx context.Context) (meta Meta, ok bool, err error) {
	var ts string
	err = s.db.QueryRowContext(ctx,
		"SELECT source, exported_at, records FROM export_meta WHERE id = 1").
		Scan(&meta.Source, &ts, &meta.Records)
	if err == sql.ErrNoRows {
		return Meta{}, false, nil
	}
	if err != nil {
		return Meta{}, false, fmt.Errorf("query export meta: %w", err)
	}
	meta.ExportedAt, err = time.Parse(time.RFC3339, ts)
	if err != nil {
		return Meta{}, false, fmt.Errorf("parse exported_at %q: %w", ts, err)
	}
	return meta, true, nil
}
