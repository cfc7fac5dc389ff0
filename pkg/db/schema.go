package db

// Times are unix nanoseconds.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

-- Snapshot of the in-memory preview cache
CREATE TABLE IF NOT EXISTS previews (
    url TEXT PRIMARY KEY,
    kind TEXT NOT NULL,           -- standard, image
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    expires_at INTEGER NOT NULL,
    stored_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_previews_expires ON previews(expires_at);

-- One row per resolution attempt made by the CLI
CREATE TABLE IF NOT EXISTS accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    status TEXT NOT NULL,         -- success, failed
    category TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    cache_hit BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    accessed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accesses_url ON accesses(url);
CREATE INDEX IF NOT EXISTS idx_accesses_time ON accesses(accessed_at);
`
