// ABOUTME: Entry is the unit of content in a collection graph
// ABOUTME: Covers posts and comments across text, image, audio, and media-URL types
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntryType identifies the content modality of an entry
type EntryType string

const (
	TypeText    EntryType = "text"
	TypeImage   EntryType = "image"
	TypeAudio   EntryType = "audio"
	TypeYouTube EntryType = "youtube"
	TypeSpotify EntryType = "spotify"
)

// ExpectedDimension is the embedding vector dimension for OpenAI text-embedding-3-small
const ExpectedDimension = 1536

// Author is optional attribution metadata supplied by the client
type Author struct {
	Name      string `json:"name,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Metadata holds type-specific fields plus the denormalized comment id list.
// The comment_ids list is advisory; the parent_id column is authoritative.
type Metadata struct {
	Type        EntryType `json:"type,omitempty"`
	AudioFile   string    `json:"audioFile,omitempty"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	ImageFile   string    `json:"imageFile,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	EmbedURL    string    `json:"embedUrl,omitempty"`
	OriginalURL string    `json:"originalUrl,omitempty"`
	Title       string    `json:"title,omitempty"`
	VideoID     string    `json:"videoId,omitempty"`
	SpotifyID   string    `json:"spotifyId,omitempty"`
	SpotifyKind string    `json:"spotifyKind,omitempty"`
	Author      *Author   `json:"author,omitempty"`
	CommentIDs  []string  `json:"comment_ids,omitempty"`
}

// Entry represents a single content item. An entry with a non-empty
// ParentID is a comment on that parent.
type Entry struct {
	ID         string    `json:"id"`
	Data       string    `json:"data"`
	Metadata   Metadata  `json:"metadata"`
	Embedding  []float64 `json:"embedding"`
	Collection string    `json:"collection"`
	ParentID   string    `json:"parentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Comments is populated one level deep by the collection read path.
	// It is never persisted directly.
	Comments []*Entry `json:"comments,omitempty"`
}

// CollectionInfo is a derived collection name with its entry count
type CollectionInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewEntry creates an Entry with a fresh id and timestamps
func NewEntry(data string, md Metadata, embedding []float64, collection, parentID string) (*Entry, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("entry data cannot be empty")
	}
	if collection == "" {
		collection = "default"
	}
	now := time.Now().UTC()
	return &Entry{
		ID:         uuid.New().String(),
		Data:       data,
		Metadata:   md,
		Embedding:  embedding,
		Collection: collection,
		ParentID:   parentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsComment reports whether the entry is attached to a parent
func (e *Entry) IsComment() bool {
	return e.ParentID != ""
}

// HasValidEmbedding reports whether the embedding has the expected
// dimension. Finiteness is checked by the projector, which owns the
// fallback placement for malformed vectors.
func (e *Entry) HasValidEmbedding(dimension int) bool {
	return len(e.Embedding) == dimension
}
