// ABOUTME: SQLite database schema for entry storage
// ABOUTME: Single entries table; comments reference their parent with cascade delete
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Entries table (posts and comments)
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}',
    embedding BLOB NOT NULL,
    collection TEXT NOT NULL DEFAULT 'default',
    parent_id TEXT REFERENCES entries(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Indexes for collection listing and comment lookup
CREATE INDEX IF NOT EXISTS idx_entries_collection ON entries(collection);
CREATE INDEX IF NOT EXISTS idx_entries_parent ON entries(parent_id);
CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
