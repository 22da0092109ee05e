// ABOUTME: Recognizes media-provider URLs embedded in free text
// ABOUTME: Extracts provider ids and canonical/embed URLs for YouTube and Spotify
package media

import (
	"fmt"
	"regexp"
	"strings"
)

// Provider identifies a recognized media provider
type Provider string

const (
	ProviderNone    Provider = ""
	ProviderYouTube Provider = "youtube"
	ProviderSpotify Provider = "spotify"
)

// Detection describes a media URL recognized inside entry text
type Detection struct {
	Provider Provider
	ID       string
	Kind     string // spotify only: track, playlist, album, artist
	URL      string // canonical provider URL
	EmbedURL string
}

var (
	spotifyRe = regexp.MustCompile(`(?:https?://)?(?:open\.)?spotify\.com/(track|playlist|album|artist)/([a-zA-Z0-9]+)(?:\?\S*)?`)
	youtubeRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
)

// Detect scans text for a recognized media URL. Spotify is checked first,
// matching the original link-detection order. A zero Detection (ProviderNone)
// means the text is plain.
func Detect(text string) Detection {
	if m := spotifyRe.FindStringSubmatch(text); m != nil {
		kind, id := m[1], m[2]
		url := m[0]
		if !strings.HasPrefix(url, "http") {
			url = fmt.Sprintf("https://open.spotify.com/%s/%s", kind, id)
		}
		return Detection{
			Provider: ProviderSpotify,
			ID:       id,
			Kind:     kind,
			URL:      url,
			EmbedURL: fmt.Sprintf("https://open.spotify.com/embed/%s/%s", kind, id),
		}
	}

	if m := youtubeRe.FindStringSubmatch(text); m != nil {
		id := m[1]
		url := m[0]
		if !strings.HasPrefix(url, "http") {
			url = fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
		}
		return Detection{
			Provider: ProviderYouTube,
			ID:       id,
			URL:      url,
			EmbedURL: fmt.Sprintf("https://www.youtube.com/embed/%s", id),
		}
	}

	return Detection{}
}
