// ABOUTME: Title lookup against YouTube and Spotify public oEmbed endpoints
// ABOUTME: Callers substitute a synthetic placeholder when a lookup fails
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultYouTubeOEmbed = "https://www.youtube.com/oembed"
	defaultSpotifyOEmbed = "https://open.spotify.com/oembed"
)

// TitleClient resolves human-readable titles for recognized media URLs
type TitleClient struct {
	httpClient  *http.Client
	youtubeBase string
	spotifyBase string
}

// NewTitleClient creates a TitleClient with the given request timeout
func NewTitleClient(timeout time.Duration) *TitleClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TitleClient{
		httpClient:  &http.Client{Timeout: timeout},
		youtubeBase: defaultYouTubeOEmbed,
		spotifyBase: defaultSpotifyOEmbed,
	}
}

// NewTitleClientWithBases creates a TitleClient against custom oEmbed
// endpoints (for testing)
func NewTitleClientWithBases(timeout time.Duration, youtubeBase, spotifyBase string) *TitleClient {
	c := NewTitleClient(timeout)
	c.youtubeBase = youtubeBase
	c.spotifyBase = spotifyBase
	return c
}

type oembedResponse struct {
	Title string `json:"title"`
}

// YouTubeTitle looks up the title of a video by id
func (c *TitleClient) YouTubeTitle(ctx context.Context, videoID string) (string, error) {
	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	endpoint := fmt.Sprintf("%s?url=%s&format=json", c.youtubeBase, url.QueryEscape(watchURL))
	return c.fetchTitle(ctx, endpoint)
}

// SpotifyTitle looks up the title of a track, playlist, album, or artist
func (c *TitleClient) SpotifyTitle(ctx context.Context, kind, id string) (string, error) {
	itemURL := fmt.Sprintf("https://open.spotify.com/%s/%s", kind, id)
	endpoint := fmt.Sprintf("%s?url=%s", c.spotifyBase, url.QueryEscape(itemURL))
	return c.fetchTitle(ctx, endpoint)
}

func (c *TitleClient) fetchTitle(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed request: status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}
	if body.Title == "" {
		return "", fmt.Errorf("oembed response has no title")
	}
	return body.Title, nil
}

// PlaceholderTitle builds the synthetic title used when a lookup fails.
// It encodes a short id prefix so entries stay distinguishable.
func PlaceholderTitle(provider Provider, kind, id string) string {
	prefix := id
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	switch provider {
	case ProviderYouTube:
		return fmt.Sprintf("YouTube Video (%s)", prefix)
	case ProviderSpotify:
		if kind == "" {
			kind = "item"
		}
		label := strings.ToUpper(kind[:1]) + kind[1:]
		return fmt.Sprintf("Spotify %s (%s)", label, prefix)
	default:
		return prefix
	}
}
