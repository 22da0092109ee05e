// ABOUTME: Entry storage operations for SQLite
// ABOUTME: CRUD, cascade delete, and comment attachment with dual bookkeeping
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/models"
)

// EntryStore handles entry persistence
type EntryStore struct {
	db        *DB
	dimension int
}

// NewEntryStore creates a new EntryStore enforcing the given embedding dimension
func NewEntryStore(db *DB, dimension int) *EntryStore {
	if dimension <= 0 {
		dimension = models.ExpectedDimension
	}
	return &EntryStore{db: db, dimension: dimension}
}

// Create inserts a new entry. The embedding must match the configured
// dimension; comments additionally require a live, top-level parent
// (comment-on-comment is rejected at write time) and are placed in the
// parent's collection regardless of the collection the caller supplied.
func (s *EntryStore) Create(e *models.Entry) error {
	if len(e.Embedding) != s.dimension {
		return &apperr.StoreError{
			Op:  "create",
			Err: fmt.Errorf("invalid embedding dimension: expected %d, got %d", s.dimension, len(e.Embedding)),
		}
	}

	if e.ParentID != "" {
		parent, err := s.Get(e.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return &apperr.StoreError{Op: "create", Err: fmt.Errorf("parent %s not found", e.ParentID)}
		}
		if parent.IsComment() {
			return &apperr.StoreError{Op: "create", Err: fmt.Errorf("cannot comment on a comment (%s)", e.ParentID)}
		}
		// Comments always live in their parent's collection; the caller's
		// value is ignored. The collection view and the projection fetch
		// comments with a collection filter, so a mismatch would hide the
		// comment from both.
		e.Collection = parent.Collection
	}

	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return &apperr.StoreError{Op: "create", Err: err}
	}

	_, err = s.db.Exec(`
		INSERT INTO entries (id, data, metadata, embedding, collection, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Data, string(metadataJSON), vectorToBlob(e.Embedding), e.Collection,
		nullString(e.ParentID), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return &apperr.StoreError{Op: "create", Err: err}
	}
	return nil
}

// Get retrieves an entry by id, or nil if it does not exist
func (s *EntryStore) Get(id string) (*models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, data, metadata, embedding, collection, parent_id, created_at, updated_at
		FROM entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &apperr.StoreError{Op: "get", Err: err}
	}
	return entry, nil
}

// Delete removes an entry and cascades to its comments. If the entry is
// itself a comment its id is detached from the parent's comment_ids first.
// The deleted entries (the target plus any cascaded comments) are returned
// so callers can clean up associated blobs.
func (s *EntryStore) Delete(id string) ([]*models.Entry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	deleted := []*models.Entry{entry}
	children, err := s.commentsOf(id)
	if err != nil {
		return nil, err
	}
	deleted = append(deleted, children...)

	if entry.ParentID != "" {
		if err := s.DetachComment(entry.ParentID, id); err != nil {
			return nil, err
		}
	}

	if _, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, id); err != nil {
		return nil, &apperr.StoreError{Op: "delete", Err: err}
	}
	return deleted, nil
}

// AttachComment appends commentID to the parent's comment_ids list and
// bumps updated_at. The parent row update and the comment row insert are
// separate writes with no transaction between them; readers treat the list
// as advisory and the comment's parent_id as authoritative.
func (s *EntryStore) AttachComment(parentID, commentID string) error {
	parent, err := s.Get(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return &apperr.StoreError{Op: "attach_comment", Err: fmt.Errorf("parent %s not found", parentID)}
	}

	for _, existing := range parent.Metadata.CommentIDs {
		if existing == commentID {
			return nil
		}
	}
	parent.Metadata.CommentIDs = append(parent.Metadata.CommentIDs, commentID)
	return s.updateMetadata(parentID, parent.Metadata)
}

// DetachComment removes commentID from the parent's comment_ids list
func (s *EntryStore) DetachComment(parentID, commentID string) error {
	parent, err := s.Get(parentID)
	if err != nil || parent == nil {
		return err
	}

	kept := parent.Metadata.CommentIDs[:0]
	for _, existing := range parent.Metadata.CommentIDs {
		if existing != commentID {
			kept = append(kept, existing)
		}
	}
	parent.Metadata.CommentIDs = kept
	return s.updateMetadata(parentID, parent.Metadata)
}

// ListByCollection returns the top-level entries of a collection, newest
// first, each with its comments populated one level deep.
func (s *EntryStore) ListByCollection(collection string) ([]*models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, data, metadata, embedding, collection, parent_id, created_at, updated_at
		FROM entries
		WHERE collection = ? AND parent_id IS NULL
		ORDER BY created_at DESC
	`, collection)
	if err != nil {
		return nil, &apperr.StoreError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, &apperr.StoreError{Op: "list", Err: err}
	}

	comments, err := s.commentsByCollection(collection)
	if err != nil {
		return nil, err
	}
	byParent := make(map[string][]*models.Entry, len(comments))
	for _, c := range comments {
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}
	for _, e := range entries {
		e.Comments = byParent[e.ID]
	}
	return entries, nil
}

// ListCollections derives distinct collection names with entry counts.
// Collections have no independent existence: an empty collection is
// indistinguishable from a nonexistent one.
func (s *EntryStore) ListCollections() ([]models.CollectionInfo, error) {
	rows, err := s.db.Query(`
		SELECT collection, COUNT(*)
		FROM entries
		GROUP BY collection
		ORDER BY collection ASC
	`)
	if err != nil {
		return nil, &apperr.StoreError{Op: "list_collections", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var infos []models.CollectionInfo
	for rows.Next() {
		var info models.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Count); err != nil {
			return nil, &apperr.StoreError{Op: "list_collections", Err: err}
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StoreError{Op: "list_collections", Err: err}
	}
	return infos, nil
}

// commentsOf returns the direct comments of an entry, oldest first
func (s *EntryStore) commentsOf(parentID string) ([]*models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, data, metadata, embedding, collection, parent_id, created_at, updated_at
		FROM entries
		WHERE parent_id = ?
		ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, &apperr.StoreError{Op: "comments", Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, &apperr.StoreError{Op: "comments", Err: err}
	}
	return entries, nil
}

// commentsByCollection returns all comments in a collection, oldest first
func (s *EntryStore) commentsByCollection(collection string) ([]*models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, data, metadata, embedding, collection, parent_id, created_at, updated_at
		FROM entries
		WHERE collection = ? AND parent_id IS NOT NULL
		ORDER BY created_at ASC
	`, collection)
	if err != nil {
		return nil, &apperr.StoreError{Op: "comments", Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, &apperr.StoreError{Op: "comments", Err: err}
	}
	return entries, nil
}

// updateMetadata persists a metadata change and bumps updated_at
func (s *EntryStore) updateMetadata(id string, md models.Metadata) error {
	metadataJSON, err := json.Marshal(md)
	if err != nil {
		return &apperr.StoreError{Op: "update_metadata", Err: err}
	}
	_, err = s.db.Exec(`
		UPDATE entries SET metadata = ?, updated_at = ? WHERE id = ?
	`, string(metadataJSON), time.Now().UTC(), id)
	if err != nil {
		return &apperr.StoreError{Op: "update_metadata", Err: err}
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e            models.Entry
		metadataJSON string
		embBlob      []byte
		parentID     sql.NullString
	)
	err := row.Scan(&e.ID, &e.Data, &metadataJSON, &embBlob, &e.Collection,
		&parentID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadataJSON), &e.Metadata); err != nil {
		e.Metadata = models.Metadata{}
	}
	if parentID.Valid {
		e.ParentID = parentID.String
	}
	e.Embedding = blobToVector(embBlob)
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// vectorToBlob encodes a vector as little-endian float64 bytes
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector decodes little-endian float64 bytes back into a vector
func blobToVector(blob []byte) []float64 {
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}
