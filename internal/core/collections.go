// ABOUTME: Collection Query Service and projection orchestration
// ABOUTME: Sole read path feeding the projector and the API surfaces
package core

import (
	"github.com/tessellate-systems/lattice/internal/models"
	"github.com/tessellate-systems/lattice/internal/projector"
)

// CollectionService assembles collection views and computes their layouts
type CollectionService struct {
	store Store
	proj  *projector.Projector
	cache *projector.LayoutCache
}

// NewCollectionService wires the read path
func NewCollectionService(store Store, proj *projector.Projector) *CollectionService {
	return &CollectionService{
		store: store,
		proj:  proj,
		cache: projector.NewLayoutCache(),
	}
}

// Collections lists distinct collection names with entry counts
func (s *CollectionService) Collections() ([]models.CollectionInfo, error) {
	return s.store.ListCollections()
}

// View returns the top-level entries of a collection with comments nested
// one level deep, newest first. Store failures propagate: an error must
// never be presented as an empty collection.
func (s *CollectionService) View(collection string) ([]*models.Entry, error) {
	return s.store.ListByCollection(collection)
}

// ProjectCollection computes 2D positions for every entry and comment in a
// collection. The layout for an unchanged snapshot is served from cache so
// the graph does not jump between renders; any change to the id set or the
// embeddings triggers a full recomputation.
func (s *CollectionService) ProjectCollection(collection string) ([]projector.Placed, error) {
	entries, err := s.View(collection)
	if err != nil {
		return nil, err
	}

	items := projector.FlattenEntries(entries)
	key := projector.SnapshotKey(items)
	if placed, ok := s.cache.Lookup(collection, key); ok {
		return placed, nil
	}

	placed := s.proj.Project(items)
	s.cache.Store(collection, key, placed)
	return placed, nil
}
