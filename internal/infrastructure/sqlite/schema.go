package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	status        TEXT NOT NULL DEFAULT 'pending_approval',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS farms (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	products    TEXT NOT NULL DEFAULT '',
	latitude    REAL,
	longitude   REAL,
	owner_id    TEXT REFERENCES users(id),
	status      TEXT NOT NULL DEFAULT 'pending_approval',
	admin_notes TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS farms_status_idx ON farms(status);
CREATE INDEX IF NOT EXISTS farms_owner_idx ON farms(owner_id);
`
