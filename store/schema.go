package store

const schemaDDL = `
CREATE TABLE IF NOT EXISTS blobs (
	root         TEXT PRIMARY KEY,
	namespace    INTEGER NOT NULL,
	size         INTEGER NOT NULL,
	mime         TEXT,
	storage_key  TEXT NOT NULL UNIQUE,
	path         TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	data_shards  INTEGER,
	total_shards INTEGER,
	share_bytes  INTEGER
);

CREATE INDEX IF NOT EXISTS idx_blobs_namespace_created
	ON blobs(namespace, created_at DESC);

CREATE TABLE IF NOT EXISTS pins (
	root       TEXT NOT NULL,
	tag        TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (root, tag)
);
`
