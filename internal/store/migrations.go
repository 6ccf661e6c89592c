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

CREATE TABLE IF NOT EXISTS notifications (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL DEFAULT 'SYSTEM',
	actor_id       TEXT NOT NULL DEFAULT '',
	actor_username TEXT NOT NULL DEFAULT '',
	post_id        TEXT NOT NULL DEFAULT '',
	comment_id     TEXT NOT NULL DEFAULT '',
	message        TEXT NOT NULL DEFAULT '',
	read           INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	metadata       TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
