package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins the media base URL and a storage key into the
// externally addressable URL stored on records.
func BuildURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL reverses BuildURL: it extracts the storage key from a
// stored media URL. mediaPrefix is the URL path prefix the media root
// is served under, e.g. "/media/". Returns an error for URLs outside
// the media prefix or containing traversal segments, so a malformed
// record can never be turned into an out-of-root delete.
func KeyFromURL(rawURL, mediaPrefix string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty media URL")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("unparseable media URL %s: %w", rawURL, err)
	}
	requestPath := strings.TrimLeft(parsed.Path, "/")
	prefix := strings.TrimLeft(mediaPrefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if prefix == "" || !strings.HasPrefix(requestPath, prefix) {
		return "", fmt.Errorf("URL %s is not under media prefix %s", rawURL, mediaPrefix)
	}
	key := strings.TrimLeft(requestPath[len(prefix):], "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("URL %s resolves outside the media root", rawURL)
	}
	return cleaned, nil
}
