package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/taskboardhq/pulse/internal/model"
)

// settingsKey is the single row key under which notification settings
// are stored. The value is a versionless JSON blob.
const settingsKey = "notification_settings"

// cacheLimit caps how many events the activity cache retains.
const cacheLimit = 200

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// GetSettings returns the persisted notification settings. An absent
// or unparseable row falls back to the documented defaults rather
// than returning an error, so a corrupt blob never breaks startup.
func (s *SQLiteStore) GetSettings(
	ctx context.Context,
) (model.NotificationSettings, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw,
		"SELECT value FROM settings WHERE key = ?", settingsKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultNotificationSettings(), nil
		}
		return model.DefaultNotificationSettings(),
			fmt.Errorf("querying settings: %w", err)
	}

	settings := model.DefaultNotificationSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return model.DefaultNotificationSettings(), nil
	}

	return settings, nil
}

// SaveSettings persists the notification settings as a JSON blob.
func (s *SQLiteStore) SaveSettings(
	ctx context.Context,
	settings model.NotificationSettings,
) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`,
		settingsKey, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}

// GetLastSeen returns the watermark for the given identity, or the
// zero time when the identity has no stored watermark.
func (s *SQLiteStore) GetLastSeen(
	ctx context.Context,
	identity string,
) (time.Time, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw,
		"SELECT last_seen FROM watermarks WHERE identity = ?", identity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("querying watermark for %s: %w", identity, err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// A mangled timestamp is treated the same as no watermark.
		return time.Time{}, nil
	}

	return t, nil
}

// SetLastSeen persists the watermark for the given identity as an
// RFC-3339 timestamp string.
func (s *SQLiteStore) SetLastSeen(
	ctx context.Context,
	identity string,
	t time.Time,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO watermarks (identity, last_seen, updated_at)
		VALUES (?, ?, ?)`,
		identity, t.UTC().Format(time.RFC3339Nano), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving watermark for %s: %w", identity, err)
	}

	return nil
}

// CacheEvents inserts or replaces a batch of activity events in the
// local cache and trims the cache to its retention limit.
func (s *SQLiteStore) CacheEvents(
	ctx context.Context,
	events []model.ActivityEvent,
) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO activity_cache (
			id, action, actor_name, subject_task_id,
			subject_text, occurred_at, details, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing cache statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range events {
		_, err = stmt.ExecContext(ctx,
			e.ID, string(e.Action), e.ActorName, e.SubjectTaskID,
			e.SubjectText, e.OccurredAt.UTC(), string(e.Details), now,
		)
		if err != nil {
			return fmt.Errorf("caching event %s: %w", e.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM activity_cache WHERE id NOT IN (
			SELECT id FROM activity_cache
			ORDER BY occurred_at DESC LIMIT ?
		)`, cacheLimit,
	)
	if err != nil {
		return fmt.Errorf("trimming activity cache: %w", err)
	}

	return tx.Commit()
}

// GetCachedEvents returns up to limit cached events, newest first.
func (s *SQLiteStore) GetCachedEvents(
	ctx context.Context,
	limit int,
) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = cacheLimit
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, action, actor_name, subject_task_id,
		       subject_text, occurred_at, details
		FROM activity_cache
		ORDER BY occurred_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying activity cache: %w", err)
	}
	defer rows.Close()

	var events []model.ActivityEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// scanEvent scans an activity event row from a sqlx.Rows result set.
func scanEvent(rows *sqlx.Rows) (model.ActivityEvent, error) {
	var (
		e          model.ActivityEvent
		action     string
		occurredAt time.Time
		details    string
	)

	err := rows.Scan(
		&e.ID, &action, &e.ActorName, &e.SubjectTaskID,
		&e.SubjectText, &occurredAt, &details,
	)
	if err != nil {
		return model.ActivityEvent{}, fmt.Errorf("scanning event row: %w", err)
	}

	e.Action = model.Action(action)
	e.OccurredAt = occurredAt
	if details != "" {
		e.Details = json.RawMessage(details)
	}

	return e, nil
}
