// ABOUTME: Tests for the ingestion pipeline
// ABOUTME: Uses a fake store and embedder; blob storage runs against a temp dir
package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/blob"
	"github.com/tessellate-systems/lattice/internal/models"
	"github.com/tessellate-systems/lattice/internal/normalizer"
)

const testDim = 4

type fakeStore struct {
	entries  map[string]*models.Entry
	order    []string
	attached map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:  make(map[string]*models.Entry),
		attached: make(map[string][]string),
	}
}

func (f *fakeStore) Create(e *models.Entry) error {
	if e.ParentID != "" {
		parent, ok := f.entries[e.ParentID]
		if !ok {
			return &apperr.StoreError{Op: "create", Err: errors.New("parent not found")}
		}
		if parent.IsComment() {
			return &apperr.StoreError{Op: "create", Err: errors.New("cannot comment on a comment")}
		}
		e.Collection = parent.Collection
	}
	f.entries[e.ID] = e
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeStore) Get(id string) (*models.Entry, error) {
	return f.entries[id], nil
}

func (f *fakeStore) Delete(id string) ([]*models.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	deleted := []*models.Entry{e}
	delete(f.entries, id)
	for cid, c := range f.entries {
		if c.ParentID == id {
			deleted = append(deleted, c)
			delete(f.entries, cid)
		}
	}
	return deleted, nil
}

func (f *fakeStore) AttachComment(parentID, commentID string) error {
	f.attached[parentID] = append(f.attached[parentID], commentID)
	return nil
}

func (f *fakeStore) ListByCollection(collection string) ([]*models.Entry, error) {
	var out []*models.Entry
	for _, id := range f.order {
		e, ok := f.entries[id]
		if ok && e.Collection == collection && !e.IsComment() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCollections() ([]models.CollectionInfo, error) {
	counts := make(map[string]int)
	for _, e := range f.entries {
		counts[e.Collection]++
	}
	var infos []models.CollectionInfo
	for name, count := range counts {
		infos = append(infos, models.CollectionInfo{Name: name, Count: count})
	}
	return infos, nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v := make([]float64, testDim)
	for i := range v {
		v[i] = float64(len(text)+i) * 0.1
	}
	return v, nil
}

type fakeCaptioner struct{ err error }

func (f *fakeCaptioner) Caption(ctx context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "a winding mountain road", nil
}

type fakeTranscriber struct{ err error }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "note to self", nil
}

type fakeTitles struct{}

func (fakeTitles) YouTubeTitle(ctx context.Context, videoID string) (string, error) {
	return "Some Video", nil
}

func (fakeTitles) SpotifyTitle(ctx context.Context, kind, id string) (string, error) {
	return "Some Track", nil
}

type pipelineFixture struct {
	pipeline *Pipeline
	store    *fakeStore
	embedder *fakeEmbedder
	blobDir  string
}

func newFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	dir := t.TempDir()
	blobs, err := blob.NewStore(dir)
	if err != nil {
		t.Fatalf("blob.NewStore() error = %v", err)
	}
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	norm := normalizer.New(&fakeCaptioner{}, &fakeTranscriber{}, fakeTitles{})
	return &pipelineFixture{
		pipeline: NewPipeline(norm, embedder, store, blobs),
		store:    store,
		embedder: embedder,
		blobDir:  dir,
	}
}

func TestAddText_RoundTrip(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.pipeline.AddText(context.Background(), "hello world", IngestRequest{})
	if err != nil {
		t.Fatalf("AddText() error = %v", err)
	}

	if entry.Data != "hello world" {
		t.Errorf("Data = %q", entry.Data)
	}
	if entry.Collection != "default" {
		t.Errorf("Collection = %q, want default", entry.Collection)
	}
	if len(entry.Embedding) != testDim {
		t.Errorf("embedding dimension = %d, want %d", len(entry.Embedding), testDim)
	}
	if stored, _ := fx.store.Get(entry.ID); stored == nil {
		t.Error("entry not persisted")
	}
}

func TestAddText_EmbedFailureLeavesNoEntry(t *testing.T) {
	fx := newFixture(t)
	fx.embedder.err = &apperr.EmbeddingError{Err: errors.New("rate limited")}

	_, err := fx.pipeline.AddText(context.Background(), "hello", IngestRequest{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(fx.store.entries) != 0 {
		t.Errorf("store has %d entries after failure, want 0", len(fx.store.entries))
	}
}

func TestAddText_Comment(t *testing.T) {
	fx := newFixture(t)

	parent, err := fx.pipeline.AddText(context.Background(), "top level", IngestRequest{})
	if err != nil {
		t.Fatalf("AddText(parent) error = %v", err)
	}

	comment, err := fx.pipeline.AddText(context.Background(), "a reply",
		IngestRequest{ParentID: parent.ID})
	if err != nil {
		t.Fatalf("AddText(comment) error = %v", err)
	}
	if !comment.IsComment() {
		t.Error("expected a comment entry")
	}

	attached := fx.store.attached[parent.ID]
	if len(attached) != 1 || attached[0] != comment.ID {
		t.Errorf("attached = %v, want [%s]", attached, comment.ID)
	}
}

func TestAddText_CommentInheritsParentCollection(t *testing.T) {
	fx := newFixture(t)

	parent, err := fx.pipeline.AddText(context.Background(), "top level",
		IngestRequest{Collection: "work"})
	if err != nil {
		t.Fatalf("AddText(parent) error = %v", err)
	}

	// Only the parent id is sent, as the MCP tool and most HTTP clients do
	comment, err := fx.pipeline.AddText(context.Background(), "a reply",
		IngestRequest{ParentID: parent.ID})
	if err != nil {
		t.Fatalf("AddText(comment) error = %v", err)
	}

	if comment.Collection != "work" {
		t.Errorf("comment Collection = %q, want work", comment.Collection)
	}
	stored, _ := fx.store.Get(comment.ID)
	if stored == nil || stored.Collection != "work" {
		t.Errorf("stored comment = %+v, want collection work", stored)
	}
	if strays, _ := fx.store.ListByCollection("default"); len(strays) != 0 {
		t.Errorf("got %d entries in default, want 0", len(strays))
	}
}

func TestAddText_Author(t *testing.T) {
	fx := newFixture(t)

	author := &models.Author{Name: "sam", URL: "https://example.com"}
	entry, err := fx.pipeline.AddText(context.Background(), "with attribution",
		IngestRequest{Author: author})
	if err != nil {
		t.Fatalf("AddText() error = %v", err)
	}
	if entry.Metadata.Author == nil || entry.Metadata.Author.Name != "sam" {
		t.Errorf("Author = %+v", entry.Metadata.Author)
	}
}

func TestAddImage(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.pipeline.AddImage(context.Background(),
		[]byte{0xff, 0xd8, 0xff}, "road.jpg", IngestRequest{})
	if err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}

	if entry.Data != "a winding mountain road" {
		t.Errorf("Data = %q, want the caption", entry.Data)
	}
	if entry.Metadata.Type != models.TypeImage {
		t.Errorf("Type = %q, want image", entry.Metadata.Type)
	}
	if entry.Metadata.ImageFile == "" || entry.Metadata.ImageURL == "" {
		t.Errorf("image references missing: %+v", entry.Metadata)
	}
	if _, err := os.Stat(filepath.Join(fx.blobDir, "images", entry.Metadata.ImageFile)); err != nil {
		t.Errorf("image blob not written: %v", err)
	}
}

func TestAddAudio(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.pipeline.AddAudio(context.Background(),
		[]byte{0x01, 0x02}, "memo.mp3", IngestRequest{})
	if err != nil {
		t.Fatalf("AddAudio() error = %v", err)
	}

	if entry.Data != "note to self" {
		t.Errorf("Data = %q, want the transcript", entry.Data)
	}
	if entry.Metadata.AudioFile == "" || entry.Metadata.AudioURL == "" {
		t.Errorf("audio references missing: %+v", entry.Metadata)
	}
	if _, err := os.Stat(filepath.Join(fx.blobDir, "audio", entry.Metadata.AudioFile)); err != nil {
		t.Errorf("audio blob not written: %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.pipeline.AddImage(context.Background(),
		[]byte{0xff, 0xd8}, "pic.jpg", IngestRequest{})
	if err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}
	blobPath := filepath.Join(fx.blobDir, "images", entry.Metadata.ImageFile)

	if err := fx.pipeline.DeleteEntry(entry.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}

	if stored, _ := fx.store.Get(entry.ID); stored != nil {
		t.Error("entry still present after delete")
	}
	if _, err := os.Stat(blobPath); !os.IsNotExist(err) {
		t.Error("image blob not cleaned up")
	}
}

func TestDeleteEntry_Missing(t *testing.T) {
	fx := newFixture(t)

	if err := fx.pipeline.DeleteEntry("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteEntry() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteComment(t *testing.T) {
	fx := newFixture(t)

	parent, err := fx.pipeline.AddText(context.Background(), "top level", IngestRequest{})
	if err != nil {
		t.Fatalf("AddText(parent) error = %v", err)
	}
	comment, err := fx.pipeline.AddText(context.Background(), "a reply",
		IngestRequest{ParentID: parent.ID})
	if err != nil {
		t.Fatalf("AddText(comment) error = %v", err)
	}

	if err := fx.pipeline.DeleteComment(comment.ID); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if stored, _ := fx.store.Get(comment.ID); stored != nil {
		t.Error("comment still present after delete")
	}
}

func TestDeleteComment_TopLevelRejected(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.pipeline.AddText(context.Background(), "top level", IngestRequest{})
	if err != nil {
		t.Fatalf("AddText() error = %v", err)
	}

	if err := fx.pipeline.DeleteComment(entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteComment() error = %v, want ErrNotFound for a non-comment", err)
	}
	if stored, _ := fx.store.Get(entry.ID); stored == nil {
		t.Error("top-level entry was deleted by DeleteComment")
	}
}
