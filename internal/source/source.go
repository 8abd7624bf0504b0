package source

import (
	"net/url"
	"strings"

	"stai/internal/services"
)

// Kind tags a classified transcription source. Classification happens once
// at input-parsing time; downstream code switches on the tag and never
// re-inspects the raw argument.
type Kind string

const (
	// KindLocalFile is a path on the local filesystem.
	KindLocalFile Kind = "file"
	// KindDirectURL is an http(s) URL pointing straight at a media
	// resource.
	KindDirectURL Kind = "url"
	// KindVideoPage is a video-hosting page URL whose audio stream must
	// be extracted.
	KindVideoPage Kind = "video-page"
)

// Source is the tagged variant produced by Classify.
type Source struct {
	Kind     Kind
	Location string
}

// Remote reports whether resolving the source requires network access.
func (s Source) Remote() bool {
	return s.Kind == KindDirectURL || s.Kind == KindVideoPage
}

// Classify decides how a user-supplied argument pair should be resolved.
// Exactly one of filePath and rawURL must be set; supplying both or neither
// is a usage error detected before any subprocess runs.
func Classify(filePath, rawURL string) (Source, error) {
	filePath = strings.TrimSpace(filePath)
	rawURL = strings.TrimSpace(rawURL)

	switch {
	case filePath == "" && rawURL == "":
		return Source{}, services.Wrap(services.ErrUsage, "source", "classify", "either --file-path or --url must be provided", nil)
	case filePath != "" && rawURL != "":
		return Source{}, services.Wrap(services.ErrUsage, "source", "classify", "--file-path and --url are mutually exclusive", nil)
	case filePath != "":
		return Source{Kind: KindLocalFile, Location: filePath}, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, services.Wrap(services.ErrUsage, "source", "classify", "invalid source URL "+rawURL, err)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return Source{}, services.Wrap(services.ErrUsage, "source", "classify", "invalid source URL "+rawURL+": unsupported scheme", nil)
	}
	if parsed.Host == "" {
		return Source{}, services.Wrap(services.ErrUsage, "source", "classify", "invalid source URL "+rawURL+": missing host", nil)
	}

	if isVideoPage(parsed) {
		return Source{Kind: KindVideoPage, Location: rawURL}, nil
	}
	return Source{Kind: KindDirectURL, Location: rawURL}, nil
}

func isVideoPage(parsed *url.URL) bool {
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return true
	case "youtube.com", "youtube-nocookie.com":
		p := parsed.EscapedPath()
		return strings.HasPrefix(p, "/watch") ||
			strings.HasPrefix(p, "/shorts/") ||
			strings.HasPrefix(p, "/live/") ||
			strings.HasPrefix(p, "/embed/")
	}
	return false
}
