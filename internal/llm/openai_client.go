// ABOUTME: OpenAI client for embeddings, image captioning, and transcription
// ABOUTME: Uses text-embedding-3-small, gpt-4o vision, and gpt-4o-transcribe (configurable)
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/util"
)

const (
	// DefaultCaptionModel is the vision model used to describe images
	DefaultCaptionModel = "gpt-4o"
	// DefaultTranscribeModel is the speech-to-text model
	DefaultTranscribeModel = "gpt-4o-transcribe"
	// DefaultEmbeddingModel produces 1536-dimensional vectors
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)

	captionPrompt = "Describe this image in detail."
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey          string
	CaptionModel    string
	TranscribeModel string
	EmbeddingModel  string
	Dimension       int
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:          apiKey,
		CaptionModel:    DefaultCaptionModel,
		TranscribeModel: DefaultTranscribeModel,
		EmbeddingModel:  DefaultEmbeddingModel,
		Dimension:       1536,
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
	}
}

// Client wraps the OpenAI API with timeouts and retry logic
type Client struct {
	api             *openai.Client
	captionModel    string
	transcribeModel string
	embeddingModel  openai.EmbeddingModel
	dimension       int
	timeout         time.Duration
	maxRetries      int
	retryDelay      time.Duration
}

// NewClient creates a Client from the given configuration
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 1536
	}
	return &Client{
		api:             openai.NewClient(cfg.APIKey),
		captionModel:    cfg.CaptionModel,
		transcribeModel: cfg.TranscribeModel,
		embeddingModel:  openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:       cfg.Dimension,
		timeout:         cfg.Timeout,
		maxRetries:      cfg.MaxRetries,
		retryDelay:      cfg.RetryDelay,
	}, nil
}

// Embed generates a dense vector for text. The result always has the
// configured dimension; empty text and malformed responses fail with an
// EmbeddingError.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperr.EmbeddingError{Err: fmt.Errorf("text cannot be empty")}
	}

	var vector []float64
	err := util.Do(ctx, c.maxRetries+1, c.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no embeddings returned")
		}

		raw := resp.Data[0].Embedding
		vector = make([]float64, len(raw))
		for i, v := range raw {
			vector[i] = float64(v)
		}
		return nil
	})
	if err != nil {
		return nil, &apperr.EmbeddingError{Err: err}
	}

	if len(vector) != c.dimension {
		return nil, &apperr.EmbeddingError{
			Err: fmt.Errorf("unexpected dimension: want %d, got %d", c.dimension, len(vector)),
		}
	}
	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &apperr.EmbeddingError{Err: fmt.Errorf("non-finite value in vector")}
		}
	}
	return vector, nil
}

// Caption produces a natural-language description of an image
func (c *Client) Caption(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", &apperr.ContentProcessingError{Op: "caption", Err: fmt.Errorf("image is empty")}
	}

	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(image))

	var caption string
	err := util.Do(ctx, c.maxRetries+1, c.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.captionModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: captionPrompt},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return fmt.Errorf("empty caption returned")
		}
		caption = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", &apperr.ContentProcessingError{Op: "caption", Err: err}
	}
	return caption, nil
}

// Transcribe converts recorded audio to text. The filename carries the
// extension the API uses to infer the MIME type.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", &apperr.ContentProcessingError{Op: "transcribe", Err: fmt.Errorf("audio is empty")}
	}
	if filename == "" {
		filename = "audio.mp3"
	}

	var transcript string
	err := util.Do(ctx, c.maxRetries+1, c.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateTranscription(callCtx, openai.AudioRequest{
			Model:    c.transcribeModel,
			FilePath: filename,
			Reader:   bytes.NewReader(audio),
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(resp.Text) == "" {
			return fmt.Errorf("empty transcript returned")
		}
		transcript = resp.Text
		return nil
	})
	if err != nil {
		return "", &apperr.ContentProcessingError{Op: "transcribe", Err: err}
	}
	return transcript, nil
}
