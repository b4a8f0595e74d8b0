package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	// Registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS adventure_sessions (
	id         TEXT PRIMARY KEY,
	status     TEXT    NOT NULL,
	payload    TEXT    NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS adventure_sessions_expires_at ON adventure_sessions (expires_at);`

// SQLiteStore implements Repository on a SQLite file
type SQLiteStore struct {
	sqlDB *sql.DB
	clock clock.Clock
}

// Ensure SQLiteStore implements Repository
var _ Repository = (*SQLiteStore)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// OpenSQLite opens (creating if needed) a SQLite session store at path.
// A nil clock uses real time.
func OpenSQLite(path string, c clock.Clock) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("storage path is required")
	}
	if c == nil {
		c = clock.New()
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &SQLiteStore{sqlDB: sqlDB, clock: c}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create stores a new session
func (s *SQLiteStore) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	stored := stampCreate(input.Session, now, input.TTL)

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}

	// An expired row with the same ID no longer counts as existing
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM adventure_sessions WHERE id = ? AND expires_at <= ?`,
		stored.ID, toMillis(now),
	); err != nil {
		return nil, errors.Wrap(err, "failed to clear expired session")
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO adventure_sessions (id, status, payload, created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		stored.ID,
		string(stored.Status),
		string(payload),
		toMillis(stored.CreatedAt),
		toMillis(stored.UpdatedAt),
		toMillis(stored.ExpiresAt),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert session")
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "failed to read insert result")
	} else if affected == 0 {
		return nil, errors.AlreadyExists(errSessionExists).WithMeta("session_id", stored.ID)
	}

	return &CreateOutput{Session: stored}, nil
}

// Get retrieves a live session by ID
func (s *SQLiteStore) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	var (
		payload   string
		expiresAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM adventure_sessions WHERE id = ?`,
		input.SessionID,
	).Scan(&payload, &expiresAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(errNotFound).WithMeta("session_id", input.SessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query session")
	}

	if expiresAt <= toMillis(s.clock.Now()) {
		return nil, errors.NotFound(errExpired).WithMeta("session_id", input.SessionID)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &session}, nil
}

// Update replaces a live session
func (s *SQLiteStore) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	stored := stampUpdate(input.Session, now, input.TTL)

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE adventure_sessions
		    SET status = ?, payload = ?, updated_at = ?, expires_at = ?
		  WHERE id = ? AND expires_at > ?`,
		string(stored.Status),
		string(payload),
		toMillis(stored.UpdatedAt),
		toMillis(stored.ExpiresAt),
		stored.ID,
		toMillis(now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "failed to read update result")
	} else if affected == 0 {
		return nil, errors.NotFound(errNotFound).WithMeta("session_id", stored.ID)
	}

	return &UpdateOutput{Session: stored}, nil
}

// Delete removes a session
func (s *SQLiteStore) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM adventure_sessions WHERE id = ?`, input.SessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete session")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read delete result")
	}

	return &DeleteOutput{Deleted: affected > 0}, nil
}

// PurgeExpired deletes every expired session and returns how many were removed
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM adventure_sessions WHERE expires_at <= ?`,
		toMillis(s.clock.Now()),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired sessions")
	}
	return result.RowsAffected()
}
