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

CREATE TABLE IF NOT EXISTS hidden_notifications (
	user_id         TEXT NOT NULL,
	notification_id TEXT NOT NULL,
	order_id        TEXT NOT NULL DEFAULT '',
	event_kind      TEXT NOT NULL DEFAULT '',
	hidden_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, notification_id)
);

CREATE TABLE IF NOT EXISTS orders (
	user_id    TEXT NOT NULL,
	id         TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT '',
	order_date DATETIME,
	fetched_at DATETIME NOT NULL,
	raw_data   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_hidden_user ON hidden_notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
