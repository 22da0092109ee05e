// ABOUTME: Tests for the collection query service
// ABOUTME: Verifies error propagation and layout reuse for unchanged snapshots
package core

import (
	"context"
	"errors"
	"testing"

	"github.com/tessellate-systems/lattice/internal/models"
	"github.com/tessellate-systems/lattice/internal/projector"
)

// erroringStore fails every read to prove errors surface instead of
// presenting an empty collection
type erroringStore struct {
	fakeStore
	err error
}

func (e *erroringStore) ListByCollection(collection string) ([]*models.Entry, error) {
	return nil, e.err
}

func (e *erroringStore) ListCollections() ([]models.CollectionInfo, error) {
	return nil, e.err
}

func TestView_PropagatesStoreErrors(t *testing.T) {
	wantErr := errors.New("db gone")
	svc := NewCollectionService(&erroringStore{err: wantErr}, projector.New(testDim))

	if _, err := svc.View("default"); !errors.Is(err, wantErr) {
		t.Errorf("View() error = %v, want the store error", err)
	}
	if _, err := svc.Collections(); !errors.Is(err, wantErr) {
		t.Errorf("Collections() error = %v, want the store error", err)
	}
	if _, err := svc.ProjectCollection("default"); !errors.Is(err, wantErr) {
		t.Errorf("ProjectCollection() error = %v, want the store error", err)
	}
}

func TestProjectCollection_CoversCommentsAndCaches(t *testing.T) {
	fx := newFixture(t)
	svc := NewCollectionService(fx.store, projector.New(testDim))

	parent, err := fx.pipeline.AddText(context.Background(), "top level", IngestRequest{})
	if err != nil {
		t.Fatalf("AddText(parent) error = %v", err)
	}
	comment, err := fx.pipeline.AddText(context.Background(), "a reply",
		IngestRequest{ParentID: parent.ID})
	if err != nil {
		t.Fatalf("AddText(comment) error = %v", err)
	}

	// fakeStore does not nest comments in ListByCollection; wire them the
	// way the SQLite store does
	stored, _ := fx.store.Get(parent.ID)
	stored.Comments = []*models.Entry{comment}

	placed, err := svc.ProjectCollection("default")
	if err != nil {
		t.Fatalf("ProjectCollection() error = %v", err)
	}
	if len(placed) != 2 {
		t.Fatalf("got %d placements, want entry + comment", len(placed))
	}
	ids := map[string]bool{placed[0].ID: true, placed[1].ID: true}
	if !ids[parent.ID] || !ids[comment.ID] {
		t.Errorf("placed ids = %v, want both %s and %s", ids, parent.ID, comment.ID)
	}

	// An unchanged snapshot reuses the cached layout verbatim
	again, err := svc.ProjectCollection("default")
	if err != nil {
		t.Fatalf("ProjectCollection() second call error = %v", err)
	}
	for i := range placed {
		if again[i] != placed[i] {
			t.Errorf("layout changed for an unchanged snapshot: %v vs %v", again[i], placed[i])
		}
	}
}
