// ABOUTME: Ingestion pipeline: normalize, embed, store, attach
// ABOUTME: Sequential per request; failures leave no partial entry behind
package core

import (
	"context"
	"errors"
	"log"

	"github.com/tessellate-systems/lattice/internal/blob"
	"github.com/tessellate-systems/lattice/internal/models"
	"github.com/tessellate-systems/lattice/internal/normalizer"
)

// ErrNotFound is returned for operations on a missing entry
var ErrNotFound = errors.New("entry not found")

// Store is the entry persistence surface the pipeline depends on
type Store interface {
	Create(e *models.Entry) error
	Get(id string) (*models.Entry, error)
	Delete(id string) ([]*models.Entry, error)
	AttachComment(parentID, commentID string) error
	ListByCollection(collection string) ([]*models.Entry, error)
	ListCollections() ([]models.CollectionInfo, error)
}

// Embedder maps canonical text to a fixed-length dense vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// IngestRequest carries the common fields of every ingestion call
type IngestRequest struct {
	Collection string
	ParentID   string
	Author     *models.Author
}

// Pipeline runs the normalize -> embed -> store write path. Every call is
// sequential; the only blocking points are the external model calls, whose
// wrappers impose timeouts.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	embedder   Embedder
	store      Store
	blobs      *blob.Store
}

// NewPipeline wires an ingestion pipeline
func NewPipeline(n *normalizer.Normalizer, e Embedder, s Store, b *blob.Store) *Pipeline {
	return &Pipeline{normalizer: n, embedder: e, store: s, blobs: b}
}

// AddText ingests free text, which may carry a recognized media URL
func (p *Pipeline) AddText(ctx context.Context, text string, req IngestRequest) (*models.Entry, error) {
	norm, err := p.normalizer.Text(ctx, text)
	if err != nil {
		return nil, err
	}
	return p.finish(ctx, norm, req)
}

// AddImage ingests image bytes: the stored file is referenced from
// metadata and the generated caption becomes the entry text
func (p *Pipeline) AddImage(ctx context.Context, image []byte, filename string, req IngestRequest) (*models.Entry, error) {
	fileName, url, err := p.blobs.Save(image, filename, blob.KindImage)
	if err != nil {
		return nil, err
	}

	norm, err := p.normalizer.Image(ctx, image)
	if err != nil {
		// The saved blob is not compensated; only the entry row is all-or-nothing
		return nil, err
	}
	norm.Metadata.ImageFile = fileName
	norm.Metadata.ImageURL = url
	return p.finish(ctx, norm, req)
}

// AddAudio ingests recorded audio: the stored file is referenced from
// metadata and the transcript becomes the entry text
func (p *Pipeline) AddAudio(ctx context.Context, audio []byte, filename string, req IngestRequest) (*models.Entry, error) {
	fileName, url, err := p.blobs.Save(audio, filename, blob.KindAudio)
	if err != nil {
		return nil, err
	}

	norm, err := p.normalizer.Audio(ctx, audio, filename)
	if err != nil {
		return nil, err
	}
	norm.Metadata.AudioFile = fileName
	norm.Metadata.AudioURL = url
	return p.finish(ctx, norm, req)
}

// finish embeds the canonical text and persists the entry, linking it into
// the parent's comment list when it is a comment
func (p *Pipeline) finish(ctx context.Context, norm normalizer.Normalized, req IngestRequest) (*models.Entry, error) {
	embedding, err := p.embedder.Embed(ctx, norm.Data)
	if err != nil {
		return nil, err
	}

	md := norm.Metadata
	md.Author = req.Author

	entry, err := models.NewEntry(norm.Data, md, embedding, req.Collection, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := p.store.Create(entry); err != nil {
		return nil, err
	}

	// Second half of the dual bookkeeping. There is deliberately no
	// transaction spanning both writes; a crash here leaves the advisory
	// list stale, which Reconcile repairs and readers tolerate.
	if entry.ParentID != "" {
		if err := p.store.AttachComment(entry.ParentID, entry.ID); err != nil {
			log.Printf("comment %s created but parent %s list not updated: %v", entry.ID, entry.ParentID, err)
		}
	}
	return entry, nil
}

// DeleteEntry removes an entry and its comments, cleaning up any media
// files the removed entries referenced
func (p *Pipeline) DeleteEntry(id string) error {
	deleted, err := p.store.Delete(id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrNotFound
	}
	p.cleanupBlobs(deleted)
	return nil
}

// DeleteComment removes a single comment. It fails with ErrNotFound when
// the target does not exist or is not a comment.
func (p *Pipeline) DeleteComment(id string) error {
	entry, err := p.store.Get(id)
	if err != nil {
		return err
	}
	if entry == nil || !entry.IsComment() {
		return ErrNotFound
	}
	deleted, err := p.store.Delete(id)
	if err != nil {
		return err
	}
	p.cleanupBlobs(deleted)
	return nil
}

func (p *Pipeline) cleanupBlobs(entries []*models.Entry) {
	if p.blobs == nil {
		return
	}
	for _, e := range entries {
		if e.Metadata.AudioFile != "" {
			if err := p.blobs.Delete(e.Metadata.AudioFile, blob.KindAudio); err != nil {
				log.Printf("failed to delete audio blob for %s: %v", e.ID, err)
			}
		}
		if e.Metadata.ImageFile != "" {
			if err := p.blobs.Delete(e.Metadata.ImageFile, blob.KindImage); err != nil {
				log.Printf("failed to delete image blob for %s: %v", e.ID, err)
			}
		}
	}
}
