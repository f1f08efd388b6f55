package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrJournalNotFound is returned by OpenExisting when no journal file exists.
var ErrJournalNotFound = errors.New("journal not found")

// migration upgrades a journal created by an older schema. schema.sql holds
// the tables of the first release; everything added since is a migration,
// so fresh and upgraded journals end up identical.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations are applied in order to journals whose user_version is lower.
var migrations = []migration{
	{1, "index messages by key", `CREATE INDEX IF NOT EXISTS idx_messages_key ON messages(key_id)`},
	{2, "index messages by operation", `CREATE INDEX IF NOT EXISTS idx_messages_operation ON messages(operation, seq)`},
}

// currentSchemaVersion is the user_version of a fully migrated journal.
var currentSchemaVersion = migrations[len(migrations)-1].version

// Store is a message journal: machine keys and the ordered messages of
// every session enciphered under them. It holds transcripts only; machine
// state is always rebuilt by re-running messages.
type Store struct {
	db *sql.DB
}

// Open opens the journal at path, creating it if needed, and brings its
// schema up to date. ":memory:" opens a private in-memory journal.
//
// The connection is configured with:
//   - WAL mode, so journal readers do not block the writer
//   - NORMAL synchronous mode
//   - a 5-second busy timeout
//   - foreign keys, so every message references a journaled key
func Open(path string) (*Store, error) {
	return open(path, path)
}

// OpenExisting opens a journal that must already exist. Read-side commands
// use it so a mistyped path never leaves an empty journal behind.
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrJournalNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat journal: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("journal path is a directory: %s", path)
	}
	return open(path, "file:"+path+"?mode=rw")
}

func open(path, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to journal %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and an in-memory journal
	// exists only on the connection that created it.
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

	return &Store{db: db}, nil
}

// Close closes the journal.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying connection. Prefer Store methods.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SchemaVersion returns the journal's user_version.
func (s *Store) SchemaVersion() (int, error) {
	return schemaVersion(s.db)
}

func applyPragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the journal tables and runs pending migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create journal schema: %w", err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := m.apply(db); err != nil {
			return err
		}
	}
	return nil
}

// apply runs the migration and records its version in one transaction.
func (m migration) apply(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("migration %d (%s): set user_version: %w", m.version, m.name, err)
	}
	return tx.Commit()
}

func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// verifyPragma checks a pragma value. Used by tests.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
