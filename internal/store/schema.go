package store

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS subscriptions (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    cost          REAL NOT NULL,
    billing_cycle TEXT NOT NULL,
    category      TEXT NOT NULL,
    anchor_date   TEXT NOT NULL DEFAULT '',
    active        INTEGER NOT NULL DEFAULT 1,
    notes         TEXT NOT NULL DEFAULT '',
    source_file   TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL DEFAULT '',
    updated_at    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path     TEXT PRIMARY KEY,
    mtime_ns      INTEGER NOT NULL,
    size_bytes    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_category ON subscriptions(category);
CREATE INDEX IF NOT EXISTS idx_subscriptions_source ON subscriptions(source_file);
`

const pgSchemaSQL = `
CREATE TABLE IF NOT EXISTS subscriptions (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    cost          DOUBLE PRECISION NOT NULL,
    billing_cycle TEXT NOT NULL,
    category      TEXT NOT NULL,
    anchor_date   TEXT NOT NULL DEFAULT '',
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    notes         TEXT NOT NULL DEFAULT '',
    source_file   TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ,
    updated_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path     TEXT PRIMARY KEY,
    mtime_ns      BIGINT NOT NULL,
    size_bytes    BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_category ON subscriptions(category);
CREATE INDEX IF NOT EXISTS idx_subscriptions_source ON subscriptions(source_file);
`
