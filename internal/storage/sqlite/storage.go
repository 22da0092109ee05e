// ABOUTME: Unified Storage facade over the SQLite entry store
// ABOUTME: Adds the comment_ids reconciliation routine for the advisory list
package sqlite

import (
	"fmt"
	"sort"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/models"
)

// Storage manages all persistent data for lattice using SQLite
type Storage struct {
	db      *DB
	entries *EntryStore
}

// NewStorage initializes storage at the default database path
func NewStorage(dimension int) (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath(), dimension)
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string, dimension int) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Storage{db: db, entries: NewEntryStore(db, dimension)}, nil
}

// NewStorageInMemory initializes an in-memory storage (for testing)
func NewStorageInMemory(dimension int) (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return &Storage{db: db, entries: NewEntryStore(db, dimension)}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Create inserts a new entry
func (s *Storage) Create(e *models.Entry) error {
	return s.entries.Create(e)
}

// Get retrieves an entry by id, or nil if missing
func (s *Storage) Get(id string) (*models.Entry, error) {
	return s.entries.Get(id)
}

// Delete removes an entry, cascading to its comments, and returns all
// removed entries
func (s *Storage) Delete(id string) ([]*models.Entry, error) {
	return s.entries.Delete(id)
}

// AttachComment links a created comment into its parent's advisory list
func (s *Storage) AttachComment(parentID, commentID string) error {
	return s.entries.AttachComment(parentID, commentID)
}

// ListByCollection returns top-level entries with comments, newest first
func (s *Storage) ListByCollection(collection string) ([]*models.Entry, error) {
	return s.entries.ListByCollection(collection)
}

// ListCollections derives collection names with entry counts
func (s *Storage) ListCollections() ([]models.CollectionInfo, error) {
	return s.entries.ListCollections()
}

// Reconcile rebuilds every parent's comment_ids list from the
// authoritative parent_id links. The advisory lists can drift when a crash
// lands between the comment insert and the parent metadata update; this
// routine restores the invariant. It returns the number of parents whose
// list was rewritten.
func (s *Storage) Reconcile() (int, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id
		FROM entries
		WHERE parent_id IS NOT NULL
		ORDER BY created_at ASC
	`)
	if err != nil {
		return 0, &apperr.StoreError{Op: "reconcile", Err: err}
	}
	childrenOf := make(map[string][]string)
	for rows.Next() {
		var id, parentID string
		if err := rows.Scan(&id, &parentID); err != nil {
			_ = rows.Close()
			return 0, &apperr.StoreError{Op: "reconcile", Err: err}
		}
		childrenOf[parentID] = append(childrenOf[parentID], id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, &apperr.StoreError{Op: "reconcile", Err: err}
	}
	_ = rows.Close()

	parentRows, err := s.db.Query(`SELECT id FROM entries WHERE parent_id IS NULL`)
	if err != nil {
		return 0, &apperr.StoreError{Op: "reconcile", Err: err}
	}
	var parentIDs []string
	for parentRows.Next() {
		var id string
		if err := parentRows.Scan(&id); err != nil {
			_ = parentRows.Close()
			return 0, &apperr.StoreError{Op: "reconcile", Err: err}
		}
		parentIDs = append(parentIDs, id)
	}
	if err := parentRows.Err(); err != nil {
		_ = parentRows.Close()
		return 0, &apperr.StoreError{Op: "reconcile", Err: err}
	}
	_ = parentRows.Close()

	type parentRecord struct {
		id string
		md models.Metadata
	}
	var stale []parentRecord
	for _, id := range parentIDs {
		entry, err := s.entries.Get(id)
		if err != nil {
			return 0, err
		}
		if entry == nil {
			continue
		}
		want := childrenOf[id]
		if !sameIDSet(entry.Metadata.CommentIDs, want) {
			entry.Metadata.CommentIDs = want
			stale = append(stale, parentRecord{id: id, md: entry.Metadata})
		}
	}

	for _, p := range stale {
		if err := s.entries.updateMetadata(p.id, p.md); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// sameIDSet compares two id lists ignoring order
func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
