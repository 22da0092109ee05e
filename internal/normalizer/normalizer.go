// ABOUTME: Content Normalizer turns raw input into canonical display text plus type metadata
// ABOUTME: Handles free text, recognized media URLs, image captioning, and audio transcription
package normalizer

import (
	"context"
	"log"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/media"
	"github.com/tessellate-systems/lattice/internal/models"
)

// Captioner produces a natural-language description of image bytes
type Captioner interface {
	Caption(ctx context.Context, image []byte) (string, error)
}

// Transcriber converts recorded audio to text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// TitleService resolves titles for recognized media URLs
type TitleService interface {
	YouTubeTitle(ctx context.Context, videoID string) (string, error)
	SpotifyTitle(ctx context.Context, kind, id string) (string, error)
}

// Normalized is the canonical form of one piece of content
type Normalized struct {
	Data     string
	Metadata models.Metadata
}

// Normalizer converts each input modality into a Normalized value
type Normalizer struct {
	captions    Captioner
	transcripts Transcriber
	titles      TitleService
}

// New creates a Normalizer with the given collaborators
func New(captions Captioner, transcripts Transcriber, titles TitleService) *Normalizer {
	return &Normalizer{captions: captions, transcripts: transcripts, titles: titles}
}

// Text normalizes free text. Text containing a recognized media URL is
// tagged with the provider type and its display text becomes the looked-up
// title; a failed lookup degrades to a synthetic placeholder rather than
// failing ingestion.
func (n *Normalizer) Text(ctx context.Context, text string) (Normalized, error) {
	det := media.Detect(text)
	switch det.Provider {
	case media.ProviderYouTube:
		title, err := n.titles.YouTubeTitle(ctx, det.ID)
		if err != nil {
			log.Printf("youtube title lookup failed for %s: %v", det.ID, err)
			title = media.PlaceholderTitle(det.Provider, "", det.ID)
		}
		return Normalized{
			Data: title,
			Metadata: models.Metadata{
				Type:        models.TypeYouTube,
				Title:       title,
				VideoID:     det.ID,
				OriginalURL: det.URL,
				EmbedURL:    det.EmbedURL,
			},
		}, nil

	case media.ProviderSpotify:
		title, err := n.titles.SpotifyTitle(ctx, det.Kind, det.ID)
		if err != nil {
			log.Printf("spotify title lookup failed for %s/%s: %v", det.Kind, det.ID, err)
			title = media.PlaceholderTitle(det.Provider, det.Kind, det.ID)
		}
		return Normalized{
			Data: title,
			Metadata: models.Metadata{
				Type:        models.TypeSpotify,
				Title:       title,
				SpotifyID:   det.ID,
				SpotifyKind: det.Kind,
				OriginalURL: det.URL,
				EmbedURL:    det.EmbedURL,
			},
		}, nil
	}

	return Normalized{
		Data:     text,
		Metadata: models.Metadata{Type: models.TypeText},
	}, nil
}

// Image normalizes image bytes by captioning them. The caption becomes the
// display text; the caller persists the original bytes out-of-band and
// fills in the reference URL.
func (n *Normalizer) Image(ctx context.Context, image []byte) (Normalized, error) {
	caption, err := n.captions.Caption(ctx, image)
	if err != nil {
		return Normalized{}, wrapProcessing("caption", err)
	}
	return Normalized{
		Data:     caption,
		Metadata: models.Metadata{Type: models.TypeImage},
	}, nil
}

// Audio normalizes audio bytes by transcription. The filename carries the
// extension used to infer the MIME type.
func (n *Normalizer) Audio(ctx context.Context, audio []byte, filename string) (Normalized, error) {
	transcript, err := n.transcripts.Transcribe(ctx, audio, filename)
	if err != nil {
		return Normalized{}, wrapProcessing("transcribe", err)
	}
	return Normalized{
		Data:     transcript,
		Metadata: models.Metadata{Type: models.TypeAudio},
	}, nil
}

// wrapProcessing preserves an existing ContentProcessingError, wrapping
// anything else
func wrapProcessing(op string, err error) error {
	if _, ok := err.(*apperr.ContentProcessingError); ok {
		return err
	}
	return &apperr.ContentProcessingError{Op: op, Err: err}
}
