// internal/storage/schema.go
package storage

// usersSchema holds the registered usernames.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    username   TEXT UNIQUE NOT NULL,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// dreamsSchema is the current shape of the dreams table.
const dreamsSchema = `
CREATE TABLE dreams (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    username       TEXT NOT NULL DEFAULT 'anonymous',
    dream_text     TEXT NOT NULL,
    mood           TEXT,
    interpretation TEXT,
    image_url      TEXT,
    created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (username) REFERENCES users (username)
);
`

const dreamsIndex = `
CREATE INDEX IF NOT EXISTS idx_dreams_username_created ON dreams(username, created_at DESC);
`

// Legacy dreams tables predate per-user journals and have no username column.
const (
	legacyRename = `ALTER TABLE dreams RENAME TO dreams_old`
	legacyCopy   = `
INSERT INTO dreams (dream_text, mood, interpretation, image_url, created_at)
SELECT dream_text, mood, interpretation, image_url, COALESCE(created_at, CURRENT_TIMESTAMP) FROM dreams_old
`
	legacyDrop = `DROP TABLE dreams_old`
)

// sqlitePragmas are applied through the DSN when opening the database.
const sqlitePragmas = "_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=synchronous(normal)"
