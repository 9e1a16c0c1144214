package deadletter

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/point-relay/internal/infrastructure/database"
)

// Entry is one recorded relay failure.
type Entry struct {
	ID        int64     `json:"id"`
	Route     string    `json:"route"`
	Topic     string    `json:"topic"`
	Reason    string    `json:"reason"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists messages the relay could not deliver.
//
// Every message that fails translation or submission is recorded with the
// original payload and the failure reason, so nothing is silently dropped.
// Entries are append-only from the relay's side; inspection happens over
// the HTTP API.
type Store struct {
	db *database.DB
}

// schema is applied on startup. CREATE IF NOT EXISTS keeps it idempotent
// across restarts.
const schema = `
CREATE TABLE IF NOT EXISTS dead_letters (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    route      TEXT NOT NULL,
    topic      TEXT NOT NULL,
    reason     TEXT NOT NULL,
    payload    BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_dead_letters_route ON dead_letters(route);
CREATE INDEX IF NOT EXISTS idx_dead_letters_created_at ON dead_letters(created_at);
`

// New creates the store and ensures the schema exists.
//
// Parameters:
//   - db: Open SQLite connection
//
// Returns:
//   - *Store: Ready store
//   - error: If schema creation fails
func New(db *database.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating dead-letter schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record persists one failed message.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - route: Name of the ingest route the message arrived on
//   - topic: The concrete MQTT topic (wildcards expanded)
//   - reason: Human-readable failure description, typically err.Error()
//   - payload: The original message payload, verbatim
//
// Returns:
//   - error: If the insert fails
func (s *Store) Record(ctx context.Context, route, topic, reason string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dead_letters (route, topic, reason, payload) VALUES (?, ?, ?, ?)`,
		route, topic, reason, payload,
	)
	if err != nil {
		return fmt.Errorf("recording dead letter: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - limit: Maximum number of entries (values < 1 are treated as 50)
//
// Returns:
//   - []Entry: Entries ordered newest first, may be empty
//   - error: If the query fails
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, route, topic, reason, payload, created_at
		 FROM dead_letters ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dead letters: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Route, &e.Topic, &e.Reason, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning dead letter: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dead letters: %w", err)
	}

	return entries, nil
}

// Count returns the total number of recorded entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dead_letters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting dead letters: %w", err)
	}
	return count, nil
}
