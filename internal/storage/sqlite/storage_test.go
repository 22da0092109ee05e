// ABOUTME: Tests for the unified Storage facade
// ABOUTME: Verifies delegation and the comment_ids reconciliation routine
package sqlite

import (
	"testing"

	"github.com/tessellate-systems/lattice/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorageInMemory(testDim)
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestStorageRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	e := testEntry(t, "hello world", "default", "")
	if err := storage.Create(e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := storage.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Data != "hello world" {
		t.Errorf("Get() = %+v, want the stored entry", got)
	}

	infos, err := storage.ListCollections()
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "default" || infos[0].Count != 1 {
		t.Errorf("ListCollections() = %+v", infos)
	}
}

func TestReconcile_RepairsStaleList(t *testing.T) {
	storage := newTestStorage(t)

	parent := testEntry(t, "top level", "default", "")
	if err := storage.Create(parent); err != nil {
		t.Fatalf("Create(parent) error = %v", err)
	}

	// A comment whose attach step never ran, simulating a crash between
	// the two writes
	orphaned := testEntry(t, "detached comment", "default", parent.ID)
	if err := storage.Create(orphaned); err != nil {
		t.Fatalf("Create(comment) error = %v", err)
	}

	// And a stale id pointing at a comment that no longer exists
	got, err := storage.Get(parent.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Metadata.CommentIDs = []string{"ghost-comment"}
	if err := storage.entries.updateMetadata(parent.ID, got.Metadata); err != nil {
		t.Fatalf("updateMetadata() error = %v", err)
	}

	repaired, err := storage.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if repaired != 1 {
		t.Errorf("Reconcile() = %d, want 1 rewritten parent", repaired)
	}

	got, err = storage.Get(parent.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Metadata.CommentIDs) != 1 || got.Metadata.CommentIDs[0] != orphaned.ID {
		t.Errorf("CommentIDs = %v, want [%s]", got.Metadata.CommentIDs, orphaned.ID)
	}
}

func TestReconcile_NoDrift(t *testing.T) {
	storage := newTestStorage(t)

	parent := testEntry(t, "top level", "default", "")
	if err := storage.Create(parent); err != nil {
		t.Fatalf("Create(parent) error = %v", err)
	}
	comment := testEntry(t, "a comment", "default", parent.ID)
	if err := storage.Create(comment); err != nil {
		t.Fatalf("Create(comment) error = %v", err)
	}
	if err := storage.AttachComment(parent.ID, comment.ID); err != nil {
		t.Fatalf("AttachComment() error = %v", err)
	}

	repaired, err := storage.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if repaired != 0 {
		t.Errorf("Reconcile() = %d, want 0 on a consistent store", repaired)
	}
}

func TestStorageDelete_ReturnsCascaded(t *testing.T) {
	storage := newTestStorage(t)

	parent := testEntry(t, "top level", "default", "")
	if err := storage.Create(parent); err != nil {
		t.Fatalf("Create(parent) error = %v", err)
	}
	comment, err := models.NewEntry("a comment", models.Metadata{
		Type:      models.TypeImage,
		ImageFile: "abc.jpg",
	}, []float64{0.4, 0.5, 0.6}, "default", parent.ID)
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if err := storage.Create(comment); err != nil {
		t.Fatalf("Create(comment) error = %v", err)
	}

	deleted, err := storage.Delete(parent.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("Delete() returned %d entries, want 2", len(deleted))
	}
	// Cascaded entries keep their metadata so callers can clean up blobs
	if deleted[1].Metadata.ImageFile != "abc.jpg" {
		t.Errorf("cascaded metadata = %+v, want the image file", deleted[1].Metadata)
	}
}
