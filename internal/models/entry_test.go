// ABOUTME: Tests for the Entry model and its metadata
// ABOUTME: Verifies construction defaults, comment detection, and JSON shape
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewEntry(t *testing.T) {
	embedding := make([]float64, ExpectedDimension)
	entry, err := NewEntry("hello world", Metadata{Type: TypeText}, embedding, "", "")
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("expected a generated id")
	}
	if entry.Collection != "default" {
		t.Errorf("Collection = %s, want default", entry.Collection)
	}
	if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if !entry.CreatedAt.Equal(entry.UpdatedAt) {
		t.Error("expected CreatedAt == UpdatedAt on creation")
	}
	if entry.IsComment() {
		t.Error("entry without parent should not be a comment")
	}
}

func TestNewEntry_EmptyData(t *testing.T) {
	for _, data := range []string{"", "   ", "\n\t"} {
		if _, err := NewEntry(data, Metadata{}, nil, "default", ""); err == nil {
			t.Errorf("NewEntry(%q) expected error", data)
		}
	}
}

func TestNewEntry_Comment(t *testing.T) {
	entry, err := NewEntry("a reply", Metadata{Type: TypeText}, nil, "default", "parent-id")
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if !entry.IsComment() {
		t.Error("entry with ParentID should be a comment")
	}
}

func TestHasValidEmbedding(t *testing.T) {
	tests := []struct {
		name      string
		embedding []float64
		want      bool
	}{
		{"correct dimension", make([]float64, ExpectedDimension), true},
		{"nil", nil, false},
		{"empty", []float64{}, false},
		{"short", make([]float64, 3), false},
		{"long", make([]float64, ExpectedDimension+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Embedding: tt.embedding}
			if got := e.HasValidEmbedding(ExpectedDimension); got != tt.want {
				t.Errorf("HasValidEmbedding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataJSON_CommentIDs(t *testing.T) {
	md := Metadata{
		Type:       TypeYouTube,
		VideoID:    "dQw4w9WgXcQ",
		Title:      "Some Video",
		CommentIDs: []string{"c1", "c2"},
	}

	data, err := json.Marshal(md)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// The wire key for the advisory list is snake_case
	if !strings.Contains(string(data), `"comment_ids":["c1","c2"]`) {
		t.Errorf("expected comment_ids key, got %s", data)
	}

	var decoded Metadata
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Type != TypeYouTube || decoded.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
	if len(decoded.CommentIDs) != 2 {
		t.Errorf("CommentIDs = %v, want 2 ids", decoded.CommentIDs)
	}
}

func TestMetadataJSON_OmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Metadata{Type: TypeText})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"type":"text"}` {
		t.Errorf("expected empty fields omitted, got %s", data)
	}
}
