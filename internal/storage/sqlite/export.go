// ABOUTME: Export functionality for collection data
// ABOUTME: Supports YAML and Markdown export formats plus a raw embeddings dump
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tessellate-systems/lattice/internal/models"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version     string             `yaml:"version" json:"version"`
	ExportedAt  string             `yaml:"exported_at" json:"exported_at"`
	Tool        string             `yaml:"tool" json:"tool"`
	Collections []ExportCollection `yaml:"collections,omitempty" json:"collections,omitempty"`
}

// ExportCollection represents one collection for export
type ExportCollection struct {
	Name    string        `yaml:"name" json:"name"`
	Entries []ExportEntry `yaml:"entries" json:"entries"`
}

// ExportEntry represents an entry for export. Embeddings are deliberately
// left out; they go to the separate JSON dump.
type ExportEntry struct {
	ID        string        `yaml:"id" json:"id"`
	Type      string        `yaml:"type,omitempty" json:"type,omitempty"`
	Data      string        `yaml:"data" json:"data"`
	Title     string        `yaml:"title,omitempty" json:"title,omitempty"`
	URL       string        `yaml:"url,omitempty" json:"url,omitempty"`
	CreatedAt string        `yaml:"created_at" json:"created_at"`
	Comments  []ExportEntry `yaml:"comments,omitempty" json:"comments,omitempty"`
}

// Export exports every collection with its entries and comments
func (s *Storage) Export() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "lattice",
	}

	infos, err := s.ListCollections()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, info := range infos {
		entries, err := s.ListByCollection(info.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to list collection %s: %w", info.Name, err)
		}

		exportColl := ExportCollection{
			Name:    info.Name,
			Entries: make([]ExportEntry, 0, len(entries)),
		}
		for _, e := range entries {
			exportColl.Entries = append(exportColl.Entries, exportEntryOf(e))
		}
		data.Collections = append(data.Collections, exportColl)
	}

	return data, nil
}

func exportEntryOf(e *models.Entry) ExportEntry {
	out := ExportEntry{
		ID:        e.ID,
		Type:      string(e.Metadata.Type),
		Data:      e.Data,
		Title:     e.Metadata.Title,
		URL:       e.Metadata.OriginalURL,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	for _, c := range e.Comments {
		out.Comments = append(out.Comments, exportEntryOf(c))
	}
	return out
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// ExportToMarkdown exports data to a Markdown file
func (s *Storage) ExportToMarkdown(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Write header
	_, _ = fmt.Fprintf(file, "# Lattice Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", data.ExportedAt)

	for _, coll := range data.Collections {
		_, _ = fmt.Fprintf(file, "## %s\n\n", coll.Name)
		for _, entry := range coll.Entries {
			label := entry.Data
			if entry.Title != "" {
				label = entry.Title
			}
			_, _ = fmt.Fprintf(file, "### %s\n\n", label)
			if entry.Type != "" && entry.Type != "text" {
				_, _ = fmt.Fprintf(file, "*Type: %s*\n\n", entry.Type)
			}
			if entry.URL != "" {
				_, _ = fmt.Fprintf(file, "<%s>\n\n", entry.URL)
			}
			if entry.Title != "" && entry.Data != entry.Title {
				_, _ = fmt.Fprintf(file, "%s\n\n", entry.Data)
			}
			for _, comment := range entry.Comments {
				_, _ = fmt.Fprintf(file, "> %s\n\n", comment.Data)
			}
			_, _ = fmt.Fprintln(file, "---")
			_, _ = fmt.Fprintln(file)
		}
	}

	return nil
}

// ExportEmbeddingsToJSON exports embeddings to a separate JSON file
func (s *Storage) ExportEmbeddingsToJSON(outputPath string) error {
	rows, err := s.db.Query(`
		SELECT id, collection, embedding, created_at
		FROM entries
	`)
	if err != nil {
		return fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type EmbeddingExport struct {
		ID         string    `json:"id"`
		Collection string    `json:"collection"`
		Vector     []float64 `json:"vector"`
		CreatedAt  string    `json:"created_at"`
	}

	var embeddings []EmbeddingExport
	for rows.Next() {
		var (
			emb       EmbeddingExport
			blob      []byte
			createdAt time.Time
		)
		if err := rows.Scan(&emb.ID, &emb.Collection, &blob, &createdAt); err != nil {
			continue
		}
		emb.Vector = blobToVector(blob)
		emb.CreatedAt = createdAt.Format(time.RFC3339)
		embeddings = append(embeddings, emb)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read embeddings: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(embeddings); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
