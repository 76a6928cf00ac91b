package diag

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dfmod/rawc/internal/logger"
)

// SQLiteSink persists every Diagnostic to a SQLite file, tagged with a
// per-run UUID, so an external tool (a GUI mod picker, a CI report) can
// query past runs without re-running the compiler (§4.9).
type SQLiteSink struct {
	db    *sql.DB
	runID string
}

// NewSQLiteSink opens (creating if needed) the database at path and
// ensures its schema exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening diagnostics db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging diagnostics db %s: %w", path, err)
	}
	const ddl = `CREATE TABLE IF NOT EXISTS diagnostics (
		run_id      TEXT NOT NULL,
		kind        TEXT NOT NULL,
		mod_name    TEXT,
		mod_version TEXT,
		object_type TEXT,
		object_id   TEXT,
		source_file TEXT,
		message     TEXT,
		recorded_at TEXT NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating diagnostics schema: %w", err)
	}
	return &SQLiteSink{db: db, runID: uuid.NewString()}, nil
}

// RunID identifies every row this sink writes during its lifetime.
func (s *SQLiteSink) RunID() string { return s.runID }

func (s *SQLiteSink) Record(d Diagnostic) {
	_, err := s.db.Exec(
		`INSERT INTO diagnostics(run_id, kind, mod_name, mod_version, object_type, object_id, source_file, message, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, string(d.Kind), d.ModName, d.ModVersion, d.ObjectType, d.ObjectID, d.SourceFile, d.Message,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		// The diagnostics sink is itself best-effort observability; a write
		// failure here must never abort the compile it is reporting on.
		logger.Warnf("diag: sqlite insert failed: %v", err)
	}
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
