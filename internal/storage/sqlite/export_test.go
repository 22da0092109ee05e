// ABOUTME: Tests for collection export functionality
// ABOUTME: Verifies YAML, Markdown, and embeddings JSON output
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tessellate-systems/lattice/internal/models"
)

func mustCreate(t *testing.T, s *Storage, data, collection, parentID string, md models.Metadata) *models.Entry {
	t.Helper()
	e, err := models.NewEntry(data, md, []float64{0.1, 0.2, 0.3}, collection, parentID)
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if err := s.Create(e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return e
}

func TestExport_Structure(t *testing.T) {
	s := newTestStorage(t)

	parent := mustCreate(t, s, "a book note", "reading", "",
		models.Metadata{Type: models.TypeText, Title: "A Book"})
	mustCreate(t, s, "loved chapter 3", "reading", parent.ID,
		models.Metadata{Type: models.TypeText})
	mustCreate(t, s, "a song", "music", "", models.Metadata{Type: models.TypeText})

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if data.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", data.Version)
	}
	if data.Tool != "lattice" {
		t.Errorf("Tool = %q, want lattice", data.Tool)
	}
	if len(data.Collections) != 2 {
		t.Fatalf("got %d collections, want 2", len(data.Collections))
	}

	// ListCollections orders alphabetically
	if data.Collections[0].Name != "music" || data.Collections[1].Name != "reading" {
		t.Errorf("collection order = %q, %q", data.Collections[0].Name, data.Collections[1].Name)
	}

	reading := data.Collections[1]
	if len(reading.Entries) != 1 {
		t.Fatalf("reading has %d entries, want 1 (comment should nest, not list)", len(reading.Entries))
	}
	entry := reading.Entries[0]
	if entry.Title != "A Book" {
		t.Errorf("Title = %q, want A Book", entry.Title)
	}
	if len(entry.Comments) != 1 || entry.Comments[0].Data != "loved chapter 3" {
		t.Errorf("comments not nested: %+v", entry.Comments)
	}
}

func TestExportToYAML(t *testing.T) {
	s := newTestStorage(t)
	mustCreate(t, s, "hello export", "default", "", models.Metadata{Type: models.TypeText})

	path := filepath.Join(t.TempDir(), "out", "export.yaml")
	if err := s.ExportToYAML(path); err != nil {
		t.Fatalf("ExportToYAML() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.Collections) != 1 || data.Collections[0].Entries[0].Data != "hello export" {
		t.Errorf("round trip mismatch: %+v", data.Collections)
	}
}

func TestExportToMarkdown(t *testing.T) {
	s := newTestStorage(t)

	video := mustCreate(t, s, "Never Gonna Give You Up", "links", "", models.Metadata{
		Type:        models.TypeYouTube,
		Title:       "Never Gonna Give You Up",
		OriginalURL: "https://youtube.com/watch?v=dQw4w9WgXcQ",
	})
	mustCreate(t, s, "a classic", "links", video.ID, models.Metadata{Type: models.TypeText})

	path := filepath.Join(t.TempDir(), "export.md")
	if err := s.ExportToMarkdown(path); err != nil {
		t.Fatalf("ExportToMarkdown() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	md := string(raw)

	for _, want := range []string{
		"# Lattice Export",
		"## links",
		"### Never Gonna Give You Up",
		"*Type: youtube*",
		"<https://youtube.com/watch?v=dQw4w9WgXcQ>",
		"> a classic",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportEmbeddingsToJSON(t *testing.T) {
	s := newTestStorage(t)
	created := mustCreate(t, s, "vec", "default", "", models.Metadata{Type: models.TypeText})

	path := filepath.Join(t.TempDir(), "embeddings.json")
	if err := s.ExportEmbeddingsToJSON(path); err != nil {
		t.Fatalf("ExportEmbeddingsToJSON() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var rows []struct {
		ID         string    `json:"id"`
		Collection string    `json:"collection"`
		Vector     []float64 `json:"vector"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ID != created.ID || rows[0].Collection != "default" {
		t.Errorf("row = %+v", rows[0])
	}
	if len(rows[0].Vector) != testDim || rows[0].Vector[1] != 0.2 {
		t.Errorf("vector = %v", rows[0].Vector)
	}
}
