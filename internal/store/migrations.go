package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS watermarks (
	identity   TEXT PRIMARY KEY,
	last_seen  TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_cache (
	id              TEXT PRIMARY KEY,
	action          TEXT NOT NULL,
	actor_name      TEXT NOT NULL,
	subject_task_id TEXT NOT NULL DEFAULT '',
	subject_text    TEXT NOT NULL DEFAULT '',
	occurred_at     DATETIME NOT NULL,
	details         TEXT NOT NULL DEFAULT '',
	cached_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_cache_occurred
	ON activity_cache(occurred_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_activity_cache_actor
	ON activity_cache(actor_name);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
