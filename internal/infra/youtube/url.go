package youtube

import "regexp"

var (
	// Loose shape check: a youtube.com or youtu.be host with any non-empty
	// path or query. Scheme is optional and case-insensitive.
	urlPattern = regexp.MustCompile(`^(?i:https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

	listParam = regexp.MustCompile(`[?&]list=([^&]+)`)
	vParam    = regexp.MustCompile(`[?&]v=([^&]+)`)
	shortPath = regexp.MustCompile(`youtu\.be/([^?&]+)`)
)

// IsValidURL reports whether the string looks like a YouTube URL.
func IsValidURL(rawURL string) bool {
	return urlPattern.MatchString(rawURL)
}

// ExtractPlaylistID returns the value of the list= query parameter, or ""
// when the URL carries none.
func ExtractPlaylistID(rawURL string) string {
	if m := listParam.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// ExtractVideoID returns the video ID from a youtu.be path or a v= query
// parameter, or "" when neither is present.
func ExtractVideoID(rawURL string) string {
	if m := shortPath.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if m := vParam.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}
