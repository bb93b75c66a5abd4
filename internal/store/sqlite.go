package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mortise/tenon/internal/session"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// SQLiteStore provides durable session storage.
// Uses SQLite with WAL mode for concurrent read access.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path. Pass
// ":memory:" for an ephemeral database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and stamps the schema
// version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// Create inserts a new session row.
func (s *SQLiteStore) Create(ctx context.Context, sess *session.Session) error {
	doc, err := sess.Export()
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, origin_kind, state, validation_status, open_holes, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID,
		string(sess.Origin.Kind),
		string(sess.State),
		string(sess.ValidationStatus),
		len(sess.Ambiguities),
		string(doc),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("create session %s: %w", sess.ID, err)
	}
	return nil
}

// Get loads and reconstructs a session from its stored document.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id = ?`, id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, session.NewSessionNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return session.Import([]byte(doc))
}

// Put replaces the stored document with the given snapshot. Last write
// wins; there is no version check.
func (s *SQLiteStore) Put(ctx context.Context, sess *session.Session) error {
	doc, err := sess.Export()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET origin_kind = ?, state = ?, validation_status = ?, open_holes = ?, document = ?, updated_at = ?
		WHERE id = ?
	`,
		string(sess.Origin.Kind),
		string(sess.State),
		string(sess.ValidationStatus),
		len(sess.Ambiguities),
		string(doc),
		s.now().UTC().Format(time.RFC3339Nano),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("put session %s: %w", sess.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put session %s: %w", sess.ID, err)
	}
	if n == 0 {
		return session.NewSessionNotFound(sess.ID)
	}
	return nil
}

// List returns summaries for all sessions ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]session.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, origin_kind, state, validation_status, open_holes
		FROM sessions
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	summaries := []session.Summary{}
	for rows.Next() {
		var sum session.Summary
		var kind, state, status string
		if err := rows.Scan(&sum.ID, &kind, &state, &status, &sum.OpenHoles); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		sum.OriginKind = session.OriginKind(kind)
		sum.State = session.State(state)
		sum.ValidationStatus = session.ValidationStatus(status)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return summaries, nil
}

// Delete removes the session row.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return session.NewSessionNotFound(id)
	}
	return nil
}
